// Package scene owns the Scene aggregate: the process-wide mix state. Scene
// is the single lock boundary between the control context (any number of
// caller threads mutating tracks/clips/transport) and the realtime context
// (exactly one audio-device thread draining one buffer per callback). Every
// exported method that touches a field the mixer reads takes scene.mu — a
// pragmatic, coarse-grained lock rather than a lock-free structure.
package scene

import (
	"sync"

	"github.com/google/uuid"

	"dawcore/errs"
	"dawcore/track"
	"dawcore/transport"
)

// MaxTracks is the fixed track table capacity.
const MaxTracks = 64

// Config holds the values Init accepts: a plain struct with
// constructor-applied defaults.
type Config struct {
	SampleRate   int
	BitDepth     int
	BufferFrames int
	ErrorHandler errs.ErrorHandler
}

// applyDefaults fills zero fields with the defaults: SR=44100,
// bit_depth=24, buffer=512.
func (c *Config) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 44100
	}
	if c.BitDepth == 0 {
		c.BitDepth = 24
	}
	if c.BufferFrames == 0 {
		c.BufferFrames = 512
	}
	if c.ErrorHandler == nil {
		c.ErrorHandler = errs.DefaultErrorHandler{}
	}
}

// Scene is the engine's complete mutable state. It is created by Init and
// torn down by Shutdown; only one Scene is meant to exist per
// process, but the type itself is a plain handle.
type Scene struct {
	id uuid.UUID

	mu       sync.Mutex
	initOnce bool

	Tracks  [MaxTracks]*track.Track
	nTracks int
	nextID  uint32

	anySolo bool

	Transport transport.Transport

	MasterVolume float32
	MasterMeter  track.Meter

	SampleRate   int
	BitDepth     int
	BufferFrames int

	errorHandler errs.ErrorHandler
}

// New allocates a Scene in the un-initialized state. Init must be called
// before the mixer or any control operation other than Init is valid.
func New() *Scene {
	return &Scene{id: uuid.New()}
}

// Init establishes the Scene defaults and marks it ready. A second call
// without an intervening Shutdown fails with AlreadyInit.
func (s *Scene) Init(cfg Config) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initOnce {
		return errs.AlreadyInit
	}

	cfg.applyDefaults()

	s.Tracks = [MaxTracks]*track.Track{}
	s.nTracks = 0
	s.nextID = 0
	s.anySolo = false
	s.Transport = transport.New()
	s.MasterVolume = 1.0
	s.MasterMeter = track.Meter{}
	s.SampleRate = cfg.SampleRate
	s.BitDepth = cfg.BitDepth
	s.BufferFrames = cfg.BufferFrames
	s.errorHandler = cfg.ErrorHandler
	s.initOnce = true

	return errs.OK
}

// Shutdown tears down the Scene. A second call returns NotInit. Callers are
// responsible for stopping the backend device *before* calling Shutdown, so
// the realtime thread cannot race with clip-memory release.
func (s *Scene) Shutdown() errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initOnce {
		return errs.NotInit
	}

	for i := range s.Tracks {
		if s.Tracks[i] != nil {
			s.Tracks[i].ReleaseClips()
			s.Tracks[i] = nil
		}
	}
	s.nTracks = 0
	s.initOnce = false

	return errs.OK
}

// Ready reports whether the scene has been Init'd and not yet Shutdown.
// This convenience method takes the lock itself; it must NOT be called
// from inside a WithLock callback (the mutex is not reentrant) — use
// Initialized there instead.
func (s *Scene) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initOnce
}

// Initialized reports the same thing as Ready but assumes the caller
// already holds s.mu — the mixer's pre-mix gate calls this from
// inside WithLock.
func (s *Scene) Initialized() bool {
	return s.initOnce
}

// WithLock runs fn with the Scene mutex held. The realtime mixer uses this
// to bound exactly one callback's worth of critical section; fn
// must not block, allocate, or perform I/O.
func (s *Scene) WithLock(fn func(*Scene)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// ErrorHandler returns the configured error sink, usable by collaborator
// adapters (backend/decoder) that need to report asynchronous failures.
func (s *Scene) ErrorHandler() errs.ErrorHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorHandler
}

// ID returns the scene's process-local identifier.
func (s *Scene) ID() uuid.UUID {
	return s.id
}
