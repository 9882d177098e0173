package display

import (
	"io"
	"strings"

	"github.com/alexpivovarov/microbit-project/x/fmtx"
)

const consoleCols = 24

// ConsoleScreen stands in for the OLED when there is no panel: it
// renders each view as a framed text block on a writer.
type ConsoleScreen struct {
	w io.Writer
}

func NewConsoleScreen(w io.Writer) *ConsoleScreen { return &ConsoleScreen{w: w} }

func (s *ConsoleScreen) Show(lines []string) error {
	if err := s.border(); err != nil {
		return err
	}
	for _, l := range lines {
		if len(l) > consoleCols {
			l = l[:consoleCols]
		}
		pad := strings.Repeat(" ", consoleCols-len(l))
		if _, err := fmtx.Fprintf(s.w, "| %s%s |\n", l, pad); err != nil {
			return err
		}
	}
	return s.border()
}

func (s *ConsoleScreen) border() error {
	_, err := io.WriteString(s.w, "+--------------------------+\n")
	return err
}
