package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// Cue identifies a gameplay sound.
type Cue int

const (
	CueJump Cue = iota
	CueRotate
	CueRespawn
)

// String returns the cue name used in logs.
func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueRotate:
		return "rotate"
	case CueRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// note is one segment of a cue: a sine sweep from one frequency to another.
type note struct {
	from, to float64
	dur      time.Duration
}

var cueNotes = map[Cue][]note{
	CueJump:    {{from: 440, to: 880, dur: 90 * time.Millisecond}},
	CueRotate:  {{from: 330, to: 330, dur: 60 * time.Millisecond}, {from: 495, to: 495, dur: 80 * time.Millisecond}},
	CueRespawn: {{from: 660, to: 220, dur: 250 * time.Millisecond}},
}

// cueDuration returns the total length of a cue.
func cueDuration(c Cue) time.Duration {
	var d time.Duration
	for _, n := range cueNotes[c] {
		d += n.dur
	}
	return d
}

// synthesize builds the streamer for a cue. Unknown cues yield nil.
func synthesize(c Cue, rate beep.SampleRate) beep.Streamer {
	notes, ok := cueNotes[c]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		total := rate.N(n.dur)
		parts = append(parts, &sweep{
			from:  n.from,
			to:    n.to,
			rate:  float64(rate),
			total: total,
			fade:  rate.N(10 * time.Millisecond),
		})
	}
	return beep.Seq(parts...)
}

// sweep is a sine oscillator gliding linearly between two frequencies with
// a short linear fade at both ends to avoid clicks.
type sweep struct {
	from, to float64
	rate     float64
	total    int
	fade     int
	pos      int
	phase    float64
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*t

		val := math.Sin(2*math.Pi*s.phase) * s.gain()
		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / s.rate
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) gain() float64 {
	if s.fade <= 0 {
		return 1
	}
	if s.pos < s.fade {
		return float64(s.pos) / float64(s.fade)
	}
	if rem := s.total - s.pos; rem < s.fade {
		return float64(rem) / float64(s.fade)
	}
	return 1
}

func (s *sweep) Err() error { return nil }
