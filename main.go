package main

import (
	"context"
	"strings"
	"time"

	"github.com/alexpivovarov/microbit-project/bus"
	"github.com/alexpivovarov/microbit-project/platform"
	"github.com/alexpivovarov/microbit-project/radio"
	"github.com/alexpivovarov/microbit-project/radio/sim"
	"github.com/alexpivovarov/microbit-project/services/config"
	"github.com/alexpivovarov/microbit-project/services/wearable"
	"github.com/alexpivovarov/microbit-project/x/fmtx"
)

// Boots a single wearable node against an in-process radio channel,
// echoing its bus traffic on the serial link. Use cmd/simnet for a
// full network with a hub, or cmd/hubnode for the hub image.
func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	board := platform.Open()
	fmtx.Fprintf(board.Serial, "boot: wearable node\n")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "wearable-1")

	b := bus.NewBus(16)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	ch := sim.NewChannel(radio.Config{})
	port := ch.NewPort()

	acc := platform.NewNoiseAccelerometer(time.Now().UnixNano())
	wearable.Start(ctx, b.NewConnection("wearable"), port, acc)

	mon := b.NewConnection("monitor").Subscribe(bus.T("wearable", "#"))
	for m := range mon.Channel() {
		fmtx.Fprintf(board.Serial, "[monitor] <- %s\n", strings.Join(m.Topic, "/"))
	}
}
