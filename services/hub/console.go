package hub

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/google/shlex"

	"github.com/alexpivovarov/microbit-project/bus"
	"github.com/alexpivovarov/microbit-project/types"
	"github.com/alexpivovarov/microbit-project/x/fmtx"
)

// RunConsole reads operator commands line by line and turns them into
// bus messages for the hub loop:
//
//	ack [id]   acknowledge the oldest alert, or device id's alert
//	status     print hub summary
//	devices    list known devices and liveness
//
// It returns when the reader is exhausted or ctx is cancelled.
func RunConsole(ctx context.Context, conn *bus.Connection, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmtx.Fprintf(w, "parse error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "ack":
			req := types.AckRequest{}
			if len(args) > 1 {
				id, err := strconv.Atoi(args[1])
				if err != nil || id <= 0 {
					fmtx.Fprintf(w, "usage: ack [device-id]\n")
					continue
				}
				req.DeviceID = id
			}
			conn.Publish(conn.NewMessage(topicAck, req, false))
		case "status", "devices":
			conn.Publish(conn.NewMessage(topicConsole, args[0], false))
		case "help":
			fmtx.Fprintf(w, "commands: ack [id], status, devices, help\n")
		default:
			fmtx.Fprintf(w, "unknown command %q, try help\n", args[0])
		}
	}
	return sc.Err()
}
