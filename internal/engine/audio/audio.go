// Package audio plays the exhibit's looping ambient track.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// ErrUnsupportedFormat is returned for data that is neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Manager plays one looping background track.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	playing  bool
	path     string

	// 0.0 to 1.0
	masterVolume float64
	trackVolume  float64

	log *zap.Logger
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		masterVolume: 1.0,
		trackVolume:  0.8,
		log:          logger.Named("audio"),
	}
}

// Init initializes the audio system.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopInternal()
	if m.initialized {
		speaker.Close()
	}
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateVolume()
}

// SetVolume sets the track volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackVolume = clamp(vol, 0, 1)
	m.updateVolume()
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetVolume returns the track volume.
func (m *Manager) GetVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackVolume
}

func (m *Manager) updateVolume() {
	if m.volume == nil {
		return
	}
	vol := m.masterVolume * m.trackVolume
	m.volume.Silent = vol <= 0
	m.volume.Volume = volumeToExponent(vol)
}

// volumeToExponent converts a 0-1 volume to the base-2 exponent
// effects.Volume expects. Halving the volume subtracts one.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
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

// Detect names the container format of data by its magic bytes.
func Detect(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("detect audio format: %w", err)
	}
	switch kind.Extension {
	case "wav", "mp3":
		return kind.Extension, nil
	}
	if kind == filetype.Unknown {
		return "", ErrUnsupportedFormat
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
}

// nopCloser keeps the reader seekable, which io.NopCloser does not.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// decode opens data as WAV or MP3 and seeks offset into it.
func decode(data []byte, offset time.Duration) (beep.StreamSeekCloser, beep.Format, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, beep.Format{}, err
	}

	rc := nopCloser{bytes.NewReader(data)}
	var (
		streamer beep.StreamSeekCloser
		f        beep.Format
	)
	switch format {
	case "mp3":
		streamer, f, err = mp3.Decode(rc)
	default:
		streamer, f, err = wav.Decode(rc)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", format, err)
	}

	if offset > 0 {
		pos := f.SampleRate.N(offset)
		if pos >= streamer.Len() {
			pos = 0
		}
		if err := streamer.Seek(pos); err != nil {
			streamer.Close()
			return nil, beep.Format{}, fmt.Errorf("seek: %w", err)
		}
	}
	return streamer, f, nil
}

// PlayLoop starts data looping forever, beginning offset into the track.
// Later loops restart from the beginning.
func (m *Manager) PlayLoop(data []byte, path string, offset time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	m.stopInternal()

	streamer, format, err := decode(data, offset)
	if err != nil {
		return err
	}

	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	m.ctrl = &beep.Ctrl{Streamer: &loopStreamer{streamer: streamer, resampled: resampled}}
	m.volume = &effects.Volume{Streamer: m.ctrl, Base: 2}
	m.updateVolume()

	m.streamer = streamer
	m.path = path
	m.playing = true

	speaker.Play(m.volume)
	m.log.Info("ambient track started", zap.String("path", path), zap.Duration("offset", offset))
	return nil
}

// Stop stops the track.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopInternal()
}

func (m *Manager) stopInternal() {
	if m.ctrl != nil {
		speaker.Lock()
		m.ctrl.Paused = true
		speaker.Unlock()
	}
	if m.initialized {
		speaker.Clear()
	}
	m.playing = false
	if m.streamer != nil {
		m.streamer.Close()
		m.streamer = nil
	}
	m.ctrl = nil
	m.volume = nil
	m.path = ""
}

// SetPaused pauses or resumes the track.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	speaker.Lock()
	m.ctrl.Paused = paused
	speaker.Unlock()
	m.playing = !paused
}

// IsPlaying returns whether the track is currently playing.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playing
}

// Path returns the path of the current track.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// loopStreamer rewinds its source whenever it runs dry.
type loopStreamer struct {
	streamer  beep.StreamSeekCloser
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if ok {
			if n == 0 {
				break
			}
			continue
		}
		if l.streamer.Len() == 0 {
			break
		}
		if err := l.streamer.Seek(0); err != nil {
			break
		}
	}
	return filled, filled > 0
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}

// Starter runs a start function once, on the first Trigger. The track waits
// for the visitor's first click in the window.
type Starter struct {
	once  sync.Once
	start func() error
	err   error
}

// NewStarter wraps start.
func NewStarter(start func() error) *Starter {
	return &Starter{start: start}
}

// Trigger runs start on the first call and returns its error on every call.
func (s *Starter) Trigger() error {
	s.once.Do(func() {
		s.err = s.start()
	})
	return s.err
}
