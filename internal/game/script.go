package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultScriptDT is the tick length used when a script does not set one.
const DefaultScriptDT = float32(1.0 / 60.0)

// Script is a recorded sequence of inputs replayed without a window.
//
//	dt: 0.0166667
//	frames:
//	  - {repeat: 30, horizontal: 1}
//	  - {rotate: right}
//	  - {jump: true}
type Script struct {
	DT     float32       `yaml:"dt"`
	Frames []ScriptFrame `yaml:"frames"`
}

// ScriptFrame is one input held for Repeat ticks. Key presses (rotate,
// jump, respawn) fire on the first of those ticks only.
type ScriptFrame struct {
	Repeat     int     `yaml:"repeat"`
	Horizontal float32 `yaml:"horizontal"`
	Rotate     string  `yaml:"rotate"`
	Jump       bool    `yaml:"jump"`
	Respawn    bool    `yaml:"respawn"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	sc, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return sc, nil
}

// ParseScript decodes and validates a script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate fills defaults and rejects malformed frames.
func (sc *Script) Validate() error {
	if sc.DT < 0 {
		return fmt.Errorf("negative dt %v", sc.DT)
	}
	if sc.DT == 0 {
		sc.DT = DefaultScriptDT
	}
	if len(sc.Frames) == 0 {
		return errors.New("script has no frames")
	}
	for i := range sc.Frames {
		f := &sc.Frames[i]
		if f.Repeat < 0 {
			return fmt.Errorf("frame %d: negative repeat %d", i, f.Repeat)
		}
		if f.Repeat == 0 {
			f.Repeat = 1
		}
		switch f.Rotate {
		case "", "left", "right":
		default:
			return fmt.Errorf("frame %d: rotate must be left or right, got %q", i, f.Rotate)
		}
	}
	return nil
}

// Ticks returns the total number of ticks the script runs.
func (sc *Script) Ticks() int {
	n := 0
	for _, f := range sc.Frames {
		n += f.Repeat
	}
	return n
}

// Run replays the script on s. observe, when non-nil, sees every tick.
func (sc *Script) Run(s *Session, observe func(Snapshot, Events)) Snapshot {
	for _, f := range sc.Frames {
		for i := 0; i < f.Repeat; i++ {
			in := Input{Horizontal: f.Horizontal}
			if i == 0 {
				in.RotateLeft = f.Rotate == "left"
				in.RotateRight = f.Rotate == "right"
				in.Jump = f.Jump
				in.Respawn = f.Respawn
			}
			ev := s.Step(in, sc.DT)
			if observe != nil {
				observe(s.Snapshot(), ev)
			}
		}
	}
	return s.Snapshot()
}
