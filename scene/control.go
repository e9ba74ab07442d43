package scene

import (
	"dawcore/errs"
	"dawcore/track"
	"dawcore/transport"
)

// Play, StopTransport, Pause, Record, Seek, SetBPM, and SetLoop delegate to the
// embedded Transport under the Scene lock, so transport writes are atomic
// with respect to the mixer's read.

func (s *Scene) Play() errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	s.Transport.Play()
	return errs.OK
}

func (s *Scene) StopTransport() errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	s.Transport.Stop()
	return errs.OK
}

func (s *Scene) Pause() errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	s.Transport.Pause()
	return errs.OK
}

func (s *Scene) Record() errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	s.Transport.Record()
	return errs.OK
}

func (s *Scene) Seek(beat float64) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	return s.Transport.Seek(beat)
}

func (s *Scene) SetBPM(bpm float64) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	return s.Transport.SetBPM(bpm)
}

func (s *Scene) SetLoop(enabled bool, start, end float64) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	return s.Transport.SetLoop(enabled, start, end)
}

// SetMasterVolume clamps and stores the master output volume.
func (s *Scene) SetMasterVolume(v float32) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	s.MasterVolume = track.ClampVolume(v)
	return errs.OK
}

// MasterPeaks reads the last-written master meter values without the lock.
// A torn read (stale L paired with fresh R) is possible but harmless for a
// UI meter, and taking the lock here would contend with the mix callback.
func (s *Scene) MasterPeaks() (l, r float32) {
	m := s.MasterMeter
	return m.L, m.R
}

// Snapshot is a point-in-time, value-type copy of the engine state for
// get_state, including the derived 1-based musical coordinates.
type Snapshot struct {
	State transport.State

	BPM             float64
	PositionBeats   float64
	PositionSeconds float64
	Bar             int
	Beat            int

	LoopOn    bool
	LoopStart float64
	LoopEnd   float64

	MasterVolume float32
	MasterPeakL  float32
	MasterPeakR  float32

	SampleRate   int
	BitDepth     int
	BufferFrames int

	TrackCount int
}

// GetState returns a Snapshot taken under the Scene lock.
func (s *Scene) GetState() (Snapshot, errs.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return Snapshot{}, errs.NotInit
	}
	return Snapshot{
		State:           s.Transport.State,
		BPM:             s.Transport.BPM,
		PositionBeats:   s.Transport.PositionBeats,
		PositionSeconds: s.Transport.PositionSeconds,
		Bar:             s.Transport.Bar(),
		Beat:            s.Transport.Beat(),
		LoopOn:          s.Transport.LoopOn,
		LoopStart:       s.Transport.LoopStart,
		LoopEnd:         s.Transport.LoopEnd,
		MasterVolume:    s.MasterVolume,
		MasterPeakL:     s.MasterMeter.L,
		MasterPeakR:     s.MasterMeter.R,
		SampleRate:      s.SampleRate,
		BitDepth:        s.BitDepth,
		BufferFrames:    s.BufferFrames,
		TrackCount:      s.nTracks,
	}, errs.OK
}
