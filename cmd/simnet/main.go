// Command simnet runs the whole sensor network in one process: a hub
// with display and operator console, plus simulated wearables on a
// shared radio channel. Falls are staged with -fall-after; use the
// console ("ack", "status", "devices") to drive the hub.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/alexpivovarov/microbit-project/bus"
	"github.com/alexpivovarov/microbit-project/platform"
	"github.com/alexpivovarov/microbit-project/radio"
	"github.com/alexpivovarov/microbit-project/radio/sim"
	"github.com/alexpivovarov/microbit-project/services/config"
	"github.com/alexpivovarov/microbit-project/services/display"
	"github.com/alexpivovarov/microbit-project/services/hub"
	"github.com/alexpivovarov/microbit-project/services/wearable"
	"github.com/alexpivovarov/microbit-project/x/fmtx"
)

func main() {
	fallAfter := flag.Duration("fall-after", 8*time.Second, "stage a fall on wearable 1 after this long (0 disables)")
	lossy := flag.Bool("lossy", false, "drop every frame from wearable 1 at the hub, forcing relays")
	flag.Parse()

	board := platform.Open()
	ch := sim.NewChannel(radio.Config{})

	// Hub node.
	hubCtx := context.WithValue(context.Background(), config.CtxDeviceKey, "hub")
	hubBus := bus.NewBus(64)
	config.NewConfigService().Start(hubCtx, hubBus.NewConnection("config"))
	hubPort := ch.NewPort()
	if *lossy {
		hubPort.SetLoss(func(frame []byte) bool {
			return len(frame) > 5 && string(frame[:5]) != "RELAY" &&
				containsSender1(frame)
		})
	}
	hub.Start(hubCtx, hubBus.NewConnection("hub"), hubPort, board.Serial)
	display.Start(hubCtx, hubBus.NewConnection("display"),
		display.NewConsoleScreen(board.Serial))

	// Wearable nodes.
	var accels []*platform.NoiseAccelerometer
	for i, dev := range []string{"wearable-1", "wearable-2"} {
		ctx := context.WithValue(context.Background(), config.CtxDeviceKey, dev)
		b := bus.NewBus(64)
		config.NewConfigService().Start(ctx, b.NewConnection("config"))
		acc := platform.NewNoiseAccelerometer(int64(i) + 1)
		accels = append(accels, acc)
		wearable.Start(ctx, b.NewConnection("wearable"), ch.NewPort(), acc)
	}

	if *fallAfter > 0 {
		go func() {
			time.Sleep(*fallAfter)
			fmt.Println("[simnet] staging fall on wearable 1")
			accels[0].Spike(3000)
		}()
	}

	// Operator console on the board input; exits with EOF.
	if err := hub.RunConsole(context.Background(), hubBus.NewConnection("console"),
		board.Console, board.Serial); err != nil {
		fmtx.Fprintf(board.Serial, "console: %s\n", err.Error())
	}
}

// containsSender1 matches frames whose wire sender field is device 1.
func containsSender1(frame []byte) bool {
	parts := 0
	for i := 0; i < len(frame); i++ {
		if frame[i] == '|' {
			parts++
			if parts == 1 {
				return i+2 <= len(frame)-1 && frame[i+1] == '1' && frame[i+2] == '|'
			}
		}
	}
	return false
}
