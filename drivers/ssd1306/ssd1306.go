// Package ssd1306 drives the 128x64 OLED fitted to the hub carrier
// board. It renders fixed-width 5-pixel glyphs, one text line per
// display page, which is all the status views need.
//
// NOTE: I2C.Tx with a nil read buffer must perform a plain write.
package ssd1306

import (
	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x3C

const (
	prefixCmd  = 0x00
	prefixData = 0x40

	Width     = 128
	Pages     = 8
	LineChars = 26 // 26 glyphs of 5 columns fit in 130 >= 128, last is clipped
)

var initSequence = []byte{
	0xAE, 0xA4, 0xD5, 0xF0, 0xA8, 0x3F, 0xD3, 0x00, 0x00, 0x8D, 0x14,
	0x20, 0x00, 0x21, 0, 127, 0x22, 0, 63, 0xA0 | 0x1, 0xC8, 0xDA, 0x12,
	0x81, 0xCF, 0xD9, 0xF1, 0xDB, 0x40, 0xA6, 0xD6, 0x00, 0xAF,
}

// Device wraps an I2C connection to an SSD1306 controller.
type Device struct {
	bus     drivers.I2C
	Address uint16

	pageBuf [Width + 1]byte
}

// New creates the device object without touching the hardware. The
// I2C bus must already be configured.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// Configure initialises the controller and clears the panel.
func (d *Device) Configure() error {
	for _, c := range initSequence {
		if err := d.cmd(c); err != nil {
			return err
		}
	}
	return d.Clear()
}

func (d *Device) cmd(c byte) error {
	return d.bus.Tx(d.Address, []byte{prefixCmd, c}, nil)
}

func (d *Device) setPos(col, page int) error {
	if err := d.cmd(0xB0 | byte(page)); err != nil {
		return err
	}
	if err := d.cmd(0x00 | byte(col%16)); err != nil {
		return err
	}
	return d.cmd(0x10 | byte(col>>4))
}

// Clear blanks every page.
func (d *Device) Clear() error {
	buf := d.pageBuf[:]
	buf[0] = prefixData
	for i := 1; i < len(buf); i++ {
		buf[i] = 0
	}
	for page := 0; page < Pages; page++ {
		if err := d.setPos(0, page); err != nil {
			return err
		}
		if err := d.bus.Tx(d.Address, buf, nil); err != nil {
			return err
		}
	}
	return nil
}

// WriteLine renders text on one display page. Text beyond LineChars
// is truncated; non-ASCII bytes render the filler glyph.
func (d *Device) WriteLine(text string, line int) error {
	if line < 0 || line >= Pages {
		return nil
	}
	buf := d.pageBuf[:]
	buf[0] = prefixData
	for i := 1; i < len(buf); i++ {
		buf[i] = 0
	}
	if len(text) > LineChars {
		text = text[:LineChars]
	}
	for i := 0; i < len(text); i++ {
		glyph := font[text[i]&0x7F]
		for k := 0; k < 5; k++ {
			pos := i*5 + k + 1
			if pos >= len(buf) {
				break
			}
			buf[pos] = glyphColumn(glyph, k)
		}
	}
	if err := d.setPos(0, line); err != nil {
		return err
	}
	return d.bus.Tx(d.Address, buf, nil)
}

// Show clears the panel and writes the given lines from the top. It
// satisfies the display service's screen interface.
func (d *Device) Show(lines []string) error {
	if err := d.Clear(); err != nil {
		return err
	}
	for i, text := range lines {
		if i >= Pages {
			break
		}
		if err := d.WriteLine(text, i); err != nil {
			return err
		}
	}
	return nil
}
