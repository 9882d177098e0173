// Command capture runs the impact-recording tool against the
// simulated accelerometer. Commands on stdin:
//
//	arm          ready the next recording
//	spike <mg>   inject an impact reading
//	quit         stop
//
// Completed recordings print as CSV rows for the training pipeline.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"

	"github.com/alexpivovarov/microbit-project/capture"
	"github.com/alexpivovarov/microbit-project/platform"
	"github.com/alexpivovarov/microbit-project/x/mathx"
	"github.com/alexpivovarov/microbit-project/x/timex"
)

func main() {
	deviceID := flag.Int("device", 1, "device id stamped on each row")
	sampleMs := flag.Int("sample-ms", 50, "sampling interval")
	flag.Parse()

	fmt.Println("# data capture node")
	fmt.Println("# columns:", capture.CSVHeader)

	acc := platform.NewNoiseAccelerometer(time.Now().UnixNano())
	armCh := make(chan struct{}, 1)

	// The recorder lives on the sampling goroutine; arming goes
	// through a channel so there is a single owner.
	go sampleLoop(*deviceID, acc, *sampleMs, armCh)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		args, err := shlex.Split(sc.Text())
		if err != nil || len(args) == 0 {
			continue
		}
		switch args[0] {
		case "arm":
			select {
			case armCh <- struct{}{}:
				fmt.Println("# armed")
			default:
			}
		case "spike":
			if len(args) < 2 {
				fmt.Println("# usage: spike <mg>")
				continue
			}
			mg, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("# usage: spike <mg>")
				continue
			}
			acc.Spike(int32(mg))
		case "quit":
			return
		default:
			fmt.Println("# commands: arm, spike <mg>, quit")
		}
	}
}

// sampleLoop owns the recorder, feeds it at the configured rate, and
// prints each completed recording.
func sampleLoop(deviceID int, acc *platform.NoiseAccelerometer, sampleMs int, armCh <-chan struct{}) {
	rec := &capture.Recorder{DeviceID: deviceID}
	tick := time.NewTicker(time.Duration(sampleMs) * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-armCh:
			rec.Arm()
		case <-tick.C:
			x, y, z := acc.Sample()
			if r, done := rec.Feed(timex.NowMs(), mathx.Mag3(x, y, z)); done {
				fmt.Println(r.CSV())
				fmt.Println("# ready; arm again for the next event")
			}
		}
	}
}
