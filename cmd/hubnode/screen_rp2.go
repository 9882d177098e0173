//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/alexpivovarov/microbit-project/drivers/ssd1306"
	"github.com/alexpivovarov/microbit-project/platform"
	"github.com/alexpivovarov/microbit-project/services/display"
)

// openScreen brings up the OLED on I2C0.
func openScreen(platform.Board) (display.Screen, error) {
	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return nil, err
	}
	d := ssd1306.New(bus)
	if err := d.Configure(); err != nil {
		return nil, err
	}
	return d, nil
}
