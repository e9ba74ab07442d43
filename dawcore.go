// Package dawcore is the realtime mix engine's public control surface: the
// stable, C-compatible API a front-end in any language binds through its
// own interop mechanism. Engine is the single handle a process
// creates via Init and tears down via Shutdown; everything else — tracks,
// clips, transport, master — is reached through Engine's methods, which
// forward to the scene package under its single lock.
package dawcore

import (
	"fmt"

	"dawcore/backend"
	"dawcore/decoder"
	"dawcore/errs"
	"dawcore/mixer"
	"dawcore/scene"
	"dawcore/track"

	"github.com/google/uuid"
)

// errorHandlerSetter is implemented by backends that can report failures
// arising outside the synchronous Open/Start call path (e.g. a callback
// panic on the device's own audio thread). backend/portaudio implements it;
// backend/fake has no such async failure mode and doesn't need to.
type errorHandlerSetter interface {
	SetErrorHandler(errs.ErrorHandler)
}

// Config configures Init. Zero values take the defaults
// (SR=44100, bit_depth=24, buffer=512, bpm=120, master=1.0).
type Config struct {
	SampleRate   int
	BitDepth     int
	BufferFrames int

	Backend backend.Backend
	Decoder decoder.Decoder

	ErrorHandler errs.ErrorHandler
}

// Engine is the process's single mix-engine handle, wrapping one Scene so
// tests can stand up isolated instances. "One Scene per process" describes
// the intended deployment, not a hard global — tests may create several
// Engines concurrently as long as each binds its own fake backend.
type Engine struct {
	id uuid.UUID

	scene   *scene.Scene
	mixer   *mixer.Mixer
	backend backend.Backend
	decoder decoder.Decoder
	device  backend.Device
}

// New allocates an Engine in the un-initialized state.
func New() *Engine {
	return &Engine{id: uuid.New(), scene: scene.New()}
}

// ID returns the engine's process-local identifier.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Version returns the engine's version string.
func Version() string {
	return "dawcore 0.1.0"
}

// Strerror maps a result code to a stable human-readable message.
func Strerror(code errs.Code) string {
	return errs.Strerror(code)
}

// Init establishes Scene defaults and opens the backend device. A second
// Init without an intervening Shutdown fails with AlreadyInit. On backend
// failure the Scene is torn down and AudioDevice is returned.
func (e *Engine) Init(cfg Config) errs.Code {
	code := e.scene.Init(scene.Config{
		SampleRate:   cfg.SampleRate,
		BitDepth:     cfg.BitDepth,
		BufferFrames: cfg.BufferFrames,
		ErrorHandler: cfg.ErrorHandler,
	})
	if code != errs.OK {
		return code
	}

	e.backend = cfg.Backend
	e.decoder = cfg.Decoder

	snap, _ := e.scene.GetState()
	e.mixer = mixer.New(e.scene, snap.BufferFrames)

	handler := e.scene.ErrorHandler()

	if e.backend != nil {
		if setter, ok := e.backend.(errorHandlerSetter); ok {
			setter.SetErrorHandler(handler)
		}

		dev, err := e.backend.Open(snap.SampleRate, snap.BufferFrames, e.mixer.Mix)
		if err != nil {
			handler.HandleError(fmt.Errorf("dawcore: open device: %w", err))
			e.scene.Shutdown()
			return errs.AudioDevice
		}
		if startErr := dev.Start(); startErr != nil {
			handler.HandleError(fmt.Errorf("dawcore: start device: %w", startErr))
			dev.Close()
			e.scene.Shutdown()
			return errs.AudioDevice
		}
		e.device = dev
	}

	return errs.OK
}

// Shutdown halts the backend before releasing any clip PCM, guaranteeing
// the realtime context has stopped.
func (e *Engine) Shutdown() errs.Code {
	if !e.scene.Ready() {
		return errs.NotInit
	}
	if e.device != nil {
		e.device.Stop()
		e.device.Close()
		e.device = nil
	}
	return e.scene.Shutdown()
}

// GetState returns a point-in-time snapshot of the engine state, including
// the derived bar/beat musical coordinates.
func (e *Engine) GetState() (scene.Snapshot, errs.Code) {
	return e.scene.GetState()
}

// --- Transport ---

func (e *Engine) Play() errs.Code                               { return e.scene.Play() }
func (e *Engine) Stop() errs.Code                               { return e.scene.StopTransport() }
func (e *Engine) Pause() errs.Code                              { return e.scene.Pause() }
func (e *Engine) Record() errs.Code                             { return e.scene.Record() }
func (e *Engine) Seek(beat float64) errs.Code                   { return e.scene.Seek(beat) }
func (e *Engine) SetBPM(bpm float64) errs.Code                  { return e.scene.SetBPM(bpm) }
func (e *Engine) SetLoop(on bool, start, end float64) errs.Code { return e.scene.SetLoop(on, start, end) }

// --- Master ---

func (e *Engine) SetMasterVolume(v float32) errs.Code { return e.scene.SetMasterVolume(v) }

func (e *Engine) GetMasterPeaks() (l, r float32, code errs.Code) {
	l, r = e.scene.MasterPeaks()
	return l, r, errs.OK
}

// --- Tracks ---

func (e *Engine) TrackCreate(kind track.Kind) (uint32, errs.Code) {
	return e.scene.CreateTrack(kind)
}

func (e *Engine) TrackDestroy(id uint32) errs.Code { return e.scene.DestroyTrack(id) }

func (e *Engine) TrackInfo(id uint32) (track.Track, errs.Code) { return e.scene.TrackInfo(id) }

func (e *Engine) TrackSetName(id uint32, name string) errs.Code {
	return e.scene.SetTrackName(id, name)
}
func (e *Engine) TrackSetVol(id uint32, v float32) errs.Code { return e.scene.SetTrackVolume(id, v) }
func (e *Engine) TrackSetPan(id uint32, p float32) errs.Code { return e.scene.SetTrackPan(id, p) }
func (e *Engine) TrackSetMute(id uint32, m bool) errs.Code   { return e.scene.SetTrackMute(id, m) }
func (e *Engine) TrackSetSolo(id uint32, s bool) errs.Code   { return e.scene.SetTrackSolo(id, s) }
func (e *Engine) TrackSetArmed(id uint32, a bool) errs.Code  { return e.scene.SetTrackArmed(id, a) }

// TrackLoadFile decodes path with the engine's configured decoder and
// appends the resulting clip to the track, under the Scene lock. If no
// decoder was configured, it returns FileNotFound.
func (e *Engine) TrackLoadFile(id uint32, path string) errs.Code {
	if e.decoder == nil {
		return errs.FileNotFound
	}
	return e.scene.LoadFile(id, path, e.decoder)
}

// TrackLoadFileAsync is the non-stalling variant: decode/allocate happen
// outside the Scene lock, which is only held to splice the finished clip
// into the track.
func (e *Engine) TrackLoadFileAsync(id uint32, path string) errs.Code {
	if e.decoder == nil {
		return errs.FileNotFound
	}
	return e.scene.LoadFileAsync(id, path, e.decoder)
}
