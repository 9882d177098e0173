// Package capture implements the impact-recording tool used to gather
// training data for the fall thresholds. A recorder is armed, waits
// for a magnitude spike, then samples a four second window and reports
// the peak plus one-second snapshots as a CSV row.
package capture

import (
	"fmt"
	"strings"
)

const (
	DefaultTriggerMg = 3200
	WindowMs         = 4000
	bucketCount      = 4
)

// CSVHeader describes the row layout Emit produces.
const CSVHeader = "device_id,event_id,max_mag,t0_mag,t1_mag,t2_mag,t3_mag,t4_mag"

// Record is one completed capture.
type Record struct {
	DeviceID int
	EventID  int
	MaxMag   int
	T0Mag    int
	Buckets  [bucketCount]int // magnitudes at ~1s..4s after the trigger
}

// CSV renders the record as one line, no trailing newline.
func (r Record) CSV() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d,%d,%d", r.DeviceID, r.EventID, r.MaxMag, r.T0Mag)
	for _, v := range r.Buckets {
		fmt.Fprintf(&b, ",%d", v)
	}
	return b.String()
}

type state uint8

const (
	idle state = iota
	armed
	recording
)

// Recorder is a sample-driven capture state machine. Feed it every
// accelerometer sample; it ignores everything until armed.
type Recorder struct {
	DeviceID  int
	TriggerMg int // zero takes DefaultTriggerMg

	st       state
	eventID  int
	startMs  int64
	t0Mag    int
	maxMag   int
	buckets  [bucketCount]int
	haveMark [bucketCount]bool
	nextMark int
}

// Arm readies the recorder for the next impact. A recording already in
// progress is abandoned.
func (r *Recorder) Arm() {
	r.st = armed
	r.eventID++
}

// Armed reports whether the recorder is waiting for a trigger or
// mid-window.
func (r *Recorder) Armed() bool { return r.st != idle }

// Feed advances the recorder with one magnitude sample. When the four
// second window closes it returns the finished record and true, and
// the recorder goes back to idle until the next Arm.
func (r *Recorder) Feed(nowMs int64, mag int) (Record, bool) {
	trig := r.TriggerMg
	if trig <= 0 {
		trig = DefaultTriggerMg
	}

	switch r.st {
	case idle:
		return Record{}, false

	case armed:
		if mag <= trig {
			return Record{}, false
		}
		r.st = recording
		r.startMs = nowMs
		r.t0Mag = mag
		r.maxMag = mag
		r.haveMark = [bucketCount]bool{}
		r.nextMark = 1
		return Record{}, false

	case recording:
		elapsed := nowMs - r.startMs
		if elapsed > WindowMs {
			rec := r.finish()
			r.st = idle
			return rec, true
		}
		if mag > r.maxMag {
			r.maxMag = mag
		}
		if r.nextMark <= bucketCount && elapsed >= int64(r.nextMark)*1000 {
			r.buckets[r.nextMark-1] = mag
			r.haveMark[r.nextMark-1] = true
			r.nextMark++
		}
		return Record{}, false
	}
	return Record{}, false
}

// finish fills any marks the sampler never reached with the last known
// magnitude, matching the field layout downstream tooling expects.
func (r *Recorder) finish() Record {
	last := r.t0Mag
	if r.haveMark[0] {
		last = r.buckets[0]
	}
	for i := 0; i < bucketCount; i++ {
		if !r.haveMark[i] {
			r.buckets[i] = last
		}
		last = r.buckets[i]
	}
	return Record{
		DeviceID: r.DeviceID,
		EventID:  r.eventID,
		MaxMag:   r.maxMag,
		T0Mag:    r.t0Mag,
		Buckets:  r.buckets,
	}
}
