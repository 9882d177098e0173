//go:build rp2040 || rp2350

package fmtx

import (
	"bytes"
	"testing"
)

func TestSprintAndFprint(t *testing.T) {
	var buf bytes.Buffer
	DefaultOutput = &buf

	// Sprint joins with spaces
	if got, want := Sprint("a", 1, true), "a 1 true"; got != want {
		t.Fatalf("Sprint = %q, want %q", got, want)
	}

	// Print writes to DefaultOutput
	buf.Reset()
	n, err := Print("x", 2)
	if err != nil {
		t.Fatalf("Print error: %v", err)
	}
	if n <= 0 {
		t.Fatalf("Print wrote %d bytes, want >0", n)
	}
	if got, want := buf.String(), "x 2"; got != want {
		t.Fatalf("Print wrote %q, want %q", got, want)
	}

	// Printf formatting
	buf.Reset()
	_, _ = Printf("v=%d", 7)
	if got, want := buf.String(), "v=7"; got != want {
		t.Fatalf("Printf wrote %q, want %q", got, want)
	}
}
