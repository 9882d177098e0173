// Command hubnode boots the central hub image: radio ingest, the
// status display, and the operator console on the serial link. On
// rp2040/rp2350 boards the display is the SSD1306 OLED on I2C0 and
// the serial link is UART0; host builds use stdio and a framed text
// screen.
//
// There is no transceiver driver for these boards yet, so the node
// carries one simulated wearable on an in-process channel to keep
// traffic flowing through the alert pipeline.
package main

import (
	"context"
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
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	board := platform.Open()

	ch := sim.NewChannel(radio.Config{})

	hubCtx := context.WithValue(context.Background(), config.CtxDeviceKey, "hub")
	hubBus := bus.NewBus(64)
	config.NewConfigService().Start(hubCtx, hubBus.NewConnection("config"))
	hub.Start(hubCtx, hubBus.NewConnection("hub"), ch.NewPort(), board.Serial)

	if screen, err := openScreen(board); err != nil {
		fmtx.Fprintf(board.Serial, "Error: display: %s\n", err.Error())
	} else {
		display.Start(hubCtx, hubBus.NewConnection("display"), screen)
	}

	wCtx := context.WithValue(context.Background(), config.CtxDeviceKey, "wearable-1")
	wBus := bus.NewBus(64)
	config.NewConfigService().Start(wCtx, wBus.NewConnection("config"))
	wearable.Start(wCtx, wBus.NewConnection("wearable"), ch.NewPort(),
		platform.NewNoiseAccelerometer(1))

	if err := hub.RunConsole(context.Background(), hubBus.NewConnection("console"),
		board.Console, board.Serial); err != nil {
		fmtx.Fprintf(board.Serial, "Error: console: %s\n", err.Error())
	}
}
