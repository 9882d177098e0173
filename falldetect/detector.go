// Package falldetect implements the two-phase fall detection state
// machine: a sudden impact spike followed by sustained stillness.
//
// A bare spike does not distinguish a fall from sitting down hard or a
// stumble with recovery; the post-impact stillness requirement is the
// discriminator. The package is pure logic: callers feed magnitude
// samples with their own millisecond timestamps.
package falldetect

// Phase is the detector's episode state.
type Phase uint8

const (
	Idle Phase = iota
	ImpactPending
	Confirmed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ImpactPending:
		return "impact_pending"
	case Confirmed:
		return "confirmed"
	default:
		return "?"
	}
}

// Config carries the detection thresholds. Zero values take the
// deployed firmware defaults.
type Config struct {
	ImpactThresholdMg    int   // spike detection; gravity is ~1000 mg
	StillnessThresholdMg int   // max deviation from 1 g considered "still"
	StillnessDurationMs  int64 // continuous stillness needed to confirm
	PostImpactWindowMs   int64 // movement past this ends the episode when no stillness run is live; 0 = 2x stillness
	RestingMg            int   // magnitude at rest
}

func (c Config) withDefaults() Config {
	if c.ImpactThresholdMg <= 0 {
		c.ImpactThresholdMg = 2500
	}
	if c.StillnessThresholdMg <= 0 {
		c.StillnessThresholdMg = 150
	}
	if c.StillnessDurationMs <= 0 {
		c.StillnessDurationMs = 2000
	}
	if c.PostImpactWindowMs <= 0 {
		c.PostImpactWindowMs = 2 * c.StillnessDurationMs
	}
	if c.RestingMg <= 0 {
		c.RestingMg = 1000
	}
	return c
}

// Event is a confirmed fall. PeakMag is the highest magnitude observed
// during the whole episode, impact spike included.
type Event struct {
	AtMs    int64
	PeakMag int
}

// Detector holds exactly one live episode. It is not safe for
// concurrent use; each wearable owns one on its service loop.
type Detector struct {
	cfg Config

	phase        Phase
	impactAtMs   int64
	stillSinceMs int64 // 0 until a stillness run begins
	peakMag      int
}

func New(cfg Config) *Detector {
	return &Detector{cfg: cfg.withDefaults()}
}

func (d *Detector) Phase() Phase { return d.phase }

// Advance feeds one magnitude sample (milli-g) taken at nowMs. It
// returns a fall event exactly once per episode, on the sample that
// confirms it. After confirming, further samples are ignored until
// Reset is called by whoever handed the event off.
func (d *Detector) Advance(nowMs int64, mag int) (Event, bool) {
	switch d.phase {
	case Idle:
		if mag > d.cfg.ImpactThresholdMg {
			d.phase = ImpactPending
			d.impactAtMs = nowMs
			d.stillSinceMs = 0
			d.peakMag = mag
		}
	case ImpactPending:
		if mag > d.peakMag {
			d.peakMag = mag
		}
		if d.isStill(mag) {
			if d.stillSinceMs == 0 {
				d.stillSinceMs = nowMs
			}
			if nowMs-d.stillSinceMs >= d.cfg.StillnessDurationMs {
				d.phase = Confirmed
				return Event{AtMs: nowMs, PeakMag: d.peakMag}, true
			}
		} else {
			if d.stillSinceMs != 0 {
				// Movement after a stillness run: recovery, not a fall.
				d.reset()
			} else if nowMs-d.impactAtMs > d.cfg.PostImpactWindowMs {
				// Window expired without any sustained stillness.
				d.reset()
			}
		}
	case Confirmed:
		// One alert at a time; new impacts are ignored until Reset.
	}
	return Event{}, false
}

// Reset returns the detector to Idle after a confirmed event has been
// handed off.
func (d *Detector) Reset() { d.reset() }

func (d *Detector) reset() {
	d.phase = Idle
	d.impactAtMs = 0
	d.stillSinceMs = 0
	d.peakMag = 0
}

func (d *Detector) isStill(mag int) bool {
	dev := mag - d.cfg.RestingMg
	if dev < 0 {
		dev = -dev
	}
	return dev < d.cfg.StillnessThresholdMg
}
