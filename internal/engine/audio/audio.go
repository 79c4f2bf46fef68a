// Package audio plays the viewer's sound effects.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Effect names used by the viewer.
const (
	EffectDoorOpen  = "door_open"
	EffectDoorClose = "door_close"
)

var (
	// ErrNotInitialized is returned when playing before Init.
	ErrNotInitialized = errors.New("audio: not initialized")
	// ErrUnknownEffect is returned when playing an effect that was never loaded.
	ErrUnknownEffect = errors.New("audio: unknown effect")
)

// Manager decodes effects once and mixes them on the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0

	effects map[string]*beep.Buffer
	mixer   *beep.Mixer
}

// New creates a manager with the given volume.
func New(volume float64) *Manager {
	return &Manager{
		volume:  clamp(volume, 0, 1),
		effects: make(map[string]*beep.Buffer),
		mixer:   &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
	return nil
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolume sets the effect volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the effect volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Load decodes a WAV stream and keeps it under name.
func (m *Manager) Load(name string, r io.Reader) error {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	streamer, format, err := wav.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("read wav: %w", err)
	}

	m.mu.Lock()
	m.effects[name] = buf
	m.mu.Unlock()
	return nil
}

// LoadFile loads a WAV file under name.
func (m *Manager) LoadFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := m.Load(name, f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Has reports whether an effect is loaded under name.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.effects[name]
	return ok
}

// Play mixes the named effect into the output. Effects overlap freely.
func (m *Manager) Play(name string) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.volume
	buf, ok := m.effects[name]
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if rate := buf.Format().SampleRate; rate != m.sampleRate {
		s = beep.Resample(4, rate, m.sampleRate, s)
	}

	speaker.Lock()
	m.mixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToExponent(vol),
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// DoorsOpened plays the door open effect if one is loaded.
func (m *Manager) DoorsOpened() {
	m.playIfLoaded(EffectDoorOpen)
}

// DoorsClosed plays the door close effect if one is loaded.
func (m *Manager) DoorsClosed() {
	m.playIfLoaded(EffectDoorClose)
}

func (m *Manager) playIfLoaded(name string) {
	if !m.Has(name) {
		return
	}
	if err := m.Play(name); err != nil {
		logger.Debug("sound effect not played", zap.String("effect", name), zap.Error(err))
	}
}

// volumeToExponent converts a linear 0-1 gain to the base-2 exponent used by
// effects.Volume, so vol=0.5 halves the amplitude.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
