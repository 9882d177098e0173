package ssd1306

import (
	"errors"
	"testing"
)

// fakeI2C records every write transaction.
type fakeI2C struct {
	writes [][]byte
	fail   bool
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.fail {
		return errors.New("bus error")
	}
	if addr != Address {
		return errors.New("wrong address")
	}
	f.writes = append(f.writes, append([]byte(nil), w...))
	return nil
}

func (f *fakeI2C) dataWrites() [][]byte {
	var out [][]byte
	for _, w := range f.writes {
		if len(w) > 0 && w[0] == prefixData {
			out = append(out, w)
		}
	}
	return out
}

func TestConfigureSendsInitThenClears(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	// One command write per init byte, then 8 cleared pages.
	var cmds int
	for _, w := range bus.writes {
		if len(w) == 2 && w[0] == prefixCmd {
			cmds++
		}
	}
	if cmds < len(initSequence) {
		t.Fatalf("command writes = %d, want >= %d", cmds, len(initSequence))
	}
	if got := len(bus.dataWrites()); got != Pages {
		t.Fatalf("page writes = %d, want %d", got, Pages)
	}
}

func TestWriteLineRendersGlyphColumns(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus)
	if err := d.WriteLine("A", 0); err != nil {
		t.Fatal(err)
	}
	data := bus.dataWrites()
	if len(data) != 1 {
		t.Fatalf("data writes = %d, want 1", len(data))
	}
	buf := data[0]
	if len(buf) != Width+1 {
		t.Fatalf("page buffer len = %d, want %d", len(buf), Width+1)
	}
	glyph := font['A']
	for k := 0; k < 5; k++ {
		if buf[k+1] != glyphColumn(glyph, k) {
			t.Fatalf("column %d = %#x, want %#x", k, buf[k+1], glyphColumn(glyph, k))
		}
	}
	// Rest of the page is blank.
	for i := 6; i < len(buf); i++ {
		if buf[i] != 0 {
			t.Fatalf("column %d = %#x, want blank", i-1, buf[i])
		}
	}
}

func TestWriteLineTruncates(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus)
	long := make([]byte, 40)
	for i := range long {
		long[i] = 'X'
	}
	if err := d.WriteLine(string(long), 0); err != nil {
		t.Fatal(err)
	}
	if len(bus.dataWrites()) != 1 {
		t.Fatal("expected a single page write")
	}
}

func TestShowWritesEachLine(t *testing.T) {
	bus := &fakeI2C{}
	d := New(bus)
	if err := d.Show([]string{"Hub online", "Devices: 2"}); err != nil {
		t.Fatal(err)
	}
	// Clear writes 8 pages, then one page per line.
	if got := len(bus.dataWrites()); got != Pages+2 {
		t.Fatalf("data writes = %d, want %d", got, Pages+2)
	}
}

func TestBusErrorPropagates(t *testing.T) {
	d := New(&fakeI2C{fail: true})
	if err := d.Configure(); err == nil {
		t.Fatal("expected bus error")
	}
}
