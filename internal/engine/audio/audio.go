// Package audio plays gameplay cues and optional background music.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/fezlike/internal/config"
)

// DefaultSampleRate is the sample rate the speaker is opened with.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playback is requested before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager owns the speaker and mixes cues over the music track.
// The speaker callback runs on its own goroutine, so all state is behind mu.
type Manager struct {
	mu sync.RWMutex

	log         *zap.Logger
	initialized bool
	muted       bool
	sampleRate  beep.SampleRate

	musicFile *os.File
	music     beep.StreamSeekCloser
	musicCtrl *beep.Ctrl
	musicVol  *effects.Volume

	masterVolume float64
	musicLevel   float64
	sfxLevel     float64

	sfx *beep.Mixer
}

// New creates a manager from the audio section of the config.
// Nothing touches the device until Init.
func New(cfg config.AudioConfig, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:          log,
		muted:        cfg.Muted,
		sampleRate:   DefaultSampleRate,
		masterVolume: clamp(float64(cfg.MasterVolume), 0, 1),
		musicLevel:   clamp(float64(cfg.MusicVolume), 0, 1),
		sfxLevel:     clamp(float64(cfg.SFXVolume), 0, 1),
		sfx:          &beep.Mixer{},
	}
}

// Init opens the speaker. A muted manager stays silent and succeeds.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized || m.muted {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfx)
	m.initialized = true
	m.log.Info("audio initialized",
		zap.Int("sample_rate", int(m.sampleRate)),
		zap.Float64("sfx_db", volumeToDb(m.masterVolume*m.sfxLevel)),
	)
	return nil
}

// Close stops playback and releases the music file.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.closeMusic()
	m.initialized = false
}

// Initialized reports whether the speaker is open.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.applyMusicVolume()
}

// SetMusicVolume sets the music volume (0.0 to 1.0).
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicLevel = clamp(vol, 0, 1)
	m.applyMusicVolume()
}

// SetSFXVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxLevel = clamp(vol, 0, 1)
}

// Volumes returns master, music and cue levels.
func (m *Manager) Volumes() (master, music, sfx float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume, m.musicLevel, m.sfxLevel
}

// Play mixes a cue into the output. It is a no-op on a silent manager.
func (m *Manager) Play(c Cue) {
	m.mu.RLock()
	ready := m.initialized
	vol := m.masterVolume * m.sfxLevel
	rate := m.sampleRate
	m.mu.RUnlock()

	if !ready {
		return
	}
	s := synthesize(c, rate)
	if s == nil {
		m.log.Warn("unknown audio cue", zap.Int("cue", int(c)))
		return
	}
	speaker.Lock()
	m.sfx.Add(withVolume(s, vol))
	speaker.Unlock()
	m.log.Debug("cue", zap.Stringer("cue", c), zap.Duration("length", cueDuration(c)))
}

// PlayMusic loops a WAV file under the cues, replacing any current track.
func (m *Manager) PlayMusic(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		if m.muted {
			return nil
		}
		return ErrNotInitialized
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open music %s: %w", path, err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode wav %s: %w", path, err)
	}

	speaker.Clear()
	m.closeMusic()

	var src beep.Streamer = &looper{src: streamer}
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, src)
	}

	m.musicFile = f
	m.music = streamer
	m.musicCtrl = &beep.Ctrl{Streamer: src}
	m.musicVol = &effects.Volume{Streamer: m.musicCtrl, Base: 10}
	m.applyMusicVolume()

	speaker.Play(m.sfx, m.musicVol)
	m.log.Info("music started", zap.String("path", path))
	return nil
}

// PauseMusic pauses or resumes the music track.
func (m *Manager) PauseMusic(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.musicCtrl == nil {
		return
	}
	speaker.Lock()
	m.musicCtrl.Paused = paused
	speaker.Unlock()
}

func (m *Manager) closeMusic() {
	if m.music != nil {
		m.music.Close()
		m.music = nil
	}
	if m.musicFile != nil {
		m.musicFile.Close()
		m.musicFile = nil
	}
	m.musicCtrl = nil
	m.musicVol = nil
}

func (m *Manager) applyMusicVolume() {
	if m.musicVol == nil {
		return
	}
	vol := m.masterVolume * m.musicLevel
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	m.musicVol.Silent = vol <= 0
	m.musicVol.Volume = gainExponent(vol)
}

// withVolume wraps s in a base-10 volume effect for a linear gain in [0,1].
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	return &effects.Volume{
		Streamer: s,
		Base:     10,
		Volume:   gainExponent(vol),
		Silent:   vol <= 0,
	}
}

// gainExponent converts a linear gain to the exponent of a base-10 volume
// effect. Silence is reported by the caller through Silent.
func gainExponent(vol float64) float64 {
	if vol <= 0 {
		return 0
	}
	return math.Log10(vol)
}

// volumeToDb converts a 0-1 volume to decibels, floored at -100.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * gainExponent(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// looper rewinds its source when it runs dry.
type looper struct {
	src beep.StreamSeeker
}

func (l *looper) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		k, more := l.src.Stream(samples[n:])
		n += k
		if more {
			continue
		}
		if l.src.Len() == 0 || l.src.Seek(0) != nil {
			return n, n > 0
		}
	}
	return n, true
}

func (l *looper) Err() error { return l.src.Err() }
