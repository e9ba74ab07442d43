package scene

import (
	"fmt"

	"dawcore/clip"
	"dawcore/decoder"
	"dawcore/errs"
	"dawcore/track"
)

// reportError forwards err to the configured handler, tagged with op.
// Callers must already hold s.mu — it reads s.errorHandler directly rather
// than through the locking ErrorHandler() accessor.
func (s *Scene) reportError(op string, err error) {
	if s.errorHandler != nil {
		s.errorHandler.HandleError(fmt.Errorf("%s: %w", op, err))
	}
}

// CreateTrack allocates a free slot, assigns the next monotonically
// increasing id, and applies defaults. The default name is
// "<TypeName> <index>" where index is the post-increment track count.
func (s *Scene) CreateTrack(kind track.Kind) (uint32, errs.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initOnce {
		return 0, errs.NotInit
	}

	slot := -1
	for i := range s.Tracks {
		if s.Tracks[i] == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return 0, errs.OutOfMemory
	}

	s.nextID++
	id := s.nextID
	s.nTracks++

	name := fmt.Sprintf("%s %d", kind.String(), s.nTracks)
	s.Tracks[slot] = track.New(id, kind, name)

	return id, errs.OK
}

// findTrack returns the track with the given id, or nil. Callers must hold
// s.mu.
func (s *Scene) findTrack(id uint32) *track.Track {
	for i := range s.Tracks {
		t := s.Tracks[i]
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

// refreshAnySolo recomputes the cached any_solo flag. Callers must hold
// s.mu. O(MaxTracks) is acceptable here: it only runs on solo writes and
// track destruction, never from the mix callback's hot path.
func (s *Scene) refreshAnySolo() {
	for i := range s.Tracks {
		t := s.Tracks[i]
		if t != nil && t.Solo {
			s.anySolo = true
			return
		}
	}
	s.anySolo = false
}

// AnySolo reports the cached any_solo flag. Callers must hold s.mu (the
// mixer reads it from inside WithLock).
func (s *Scene) AnySolo() bool {
	return s.anySolo
}

// DestroyTrack releases a track's clip PCM and frees its slot.
func (s *Scene) DestroyTrack(id uint32) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initOnce {
		return errs.NotInit
	}

	for i := range s.Tracks {
		t := s.Tracks[i]
		if t != nil && t.ID == id {
			t.ReleaseClips()
			s.Tracks[i] = nil
			s.nTracks--
			s.refreshAnySolo()
			return errs.OK
		}
	}
	return errs.InvalidTrack
}

// TrackInfo returns a value-copy snapshot of a track, safe for the caller
// to read without further synchronization.
func (s *Scene) TrackInfo(id uint32) (track.Track, errs.Code) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initOnce {
		return track.Track{}, errs.NotInit
	}
	t := s.findTrack(id)
	if t == nil {
		return track.Track{}, errs.InvalidTrack
	}
	return *t, errs.OK
}

// SetTrackName updates a track's display name (truncated to 63 bytes).
func (s *Scene) SetTrackName(id uint32, name string) errs.Code {
	return s.mutateTrack(id, func(t *track.Track) errs.Code {
		t.SetName(name)
		return errs.OK
	})
}

// SetTrackVolume clamps and stores the track's volume.
func (s *Scene) SetTrackVolume(id uint32, v float32) errs.Code {
	return s.mutateTrack(id, func(t *track.Track) errs.Code {
		t.SetVolume(v)
		return errs.OK
	})
}

// SetTrackPan clamps and stores the track's pan.
func (s *Scene) SetTrackPan(id uint32, p float32) errs.Code {
	return s.mutateTrack(id, func(t *track.Track) errs.Code {
		t.SetPan(p)
		return errs.OK
	})
}

// SetTrackMute sets the mute flag.
func (s *Scene) SetTrackMute(id uint32, mute bool) errs.Code {
	return s.mutateTrack(id, func(t *track.Track) errs.Code {
		t.Mute = mute
		return errs.OK
	})
}

// SetTrackSolo sets the solo flag and refreshes the cached any_solo flag.
func (s *Scene) SetTrackSolo(id uint32, solo bool) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	t := s.findTrack(id)
	if t == nil {
		return errs.InvalidTrack
	}
	t.Solo = solo
	s.refreshAnySolo()
	return errs.OK
}

// SetTrackArmed sets the record-arm flag.
func (s *Scene) SetTrackArmed(id uint32, armed bool) errs.Code {
	return s.mutateTrack(id, func(t *track.Track) errs.Code {
		t.Armed = armed
		return errs.OK
	})
}

// mutateTrack is the common lock/lookup/apply skeleton shared by the
// simple field setters above.
func (s *Scene) mutateTrack(id uint32, fn func(*track.Track) errs.Code) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	t := s.findTrack(id)
	if t == nil {
		return errs.InvalidTrack
	}
	return fn(t)
}

// LoadFile decodes path via dec and appends the resulting Clip to the
// track's clip table. The entire operation — decode, allocate, split,
// append — runs under the Scene lock, which is simple but stalls the
// control path (and transitively the mixer, since both share the same
// mutex) for the duration of a large file's decode. LoadFileAsync below
// offers the non-stalling alternative.
func (s *Scene) LoadFile(id uint32, path string, dec decoder.Decoder) errs.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFileLocked(id, path, dec)
}

func (s *Scene) loadFileLocked(id uint32, path string, dec decoder.Decoder) errs.Code {
	if !s.initOnce {
		return errs.NotInit
	}
	t := s.findTrack(id)
	if t == nil {
		return errs.InvalidTrack
	}
	if t.ClipCount >= track.MaxClips {
		return errs.ClipFull
	}

	d, code := dec.Open(path, s.SampleRate)
	if code != errs.OK {
		s.reportError("scene.LoadFile: open "+path, errs.New(code, "decoder.Open"))
		return errs.FileNotFound
	}
	defer d.Close()

	frames := d.LengthInFrames()
	if frames == 0 {
		// Unknown length: allocate up to 30 seconds and record whatever
		// the decoder actually yields.
		frames = s.SampleRate * 30
	}

	left := make([]float32, frames)
	right := make([]float32, frames)
	interleaved := make([]float32, frames*2)

	read, code := d.ReadFrames(interleaved, frames)
	if code != errs.OK {
		s.reportError("scene.LoadFile: read "+path, errs.New(code, "decoder.ReadFrames"))
		return errs.OutOfMemory
	}

	left = left[:read]
	right = right[:read]
	for i := 0; i < read; i++ {
		left[i] = interleaved[i*2]
		right[i] = interleaved[i*2+1]
	}

	lenBeats := float64(read) * s.Transport.BPM / (float64(s.SampleRate) * 60)
	c, code := clip.New(left, right, 0, lenBeats)
	if code != errs.OK {
		return code
	}

	return t.AddClip(c)
}

// LoadFileAsync decodes path outside the Scene lock and only takes the lock to splice the finished clip into the
// track, so a large file never stalls the realtime thread. On success the
// track ends up with the same clip LoadFile would add. The track lookup and
// clip-table check run only after decoding, so when the decoder also fails
// the returned code is the decoder's (FileNotFound or OutOfMemory) rather
// than InvalidTrack or ClipFull.
func (s *Scene) LoadFileAsync(id uint32, path string, dec decoder.Decoder) errs.Code {
	if !s.Ready() {
		return errs.NotInit
	}

	d, code := dec.Open(path, s.sampleRateSnapshot())
	if code != errs.OK {
		s.ErrorHandler().HandleError(fmt.Errorf("scene.LoadFileAsync: open %s: %w", path, errs.New(code, "decoder.Open")))
		return errs.FileNotFound
	}
	defer d.Close()

	sr := s.sampleRateSnapshot()
	frames := d.LengthInFrames()
	if frames == 0 {
		frames = sr * 30
	}

	interleaved := make([]float32, frames*2)
	read, code := d.ReadFrames(interleaved, frames)
	if code != errs.OK {
		s.ErrorHandler().HandleError(fmt.Errorf("scene.LoadFileAsync: read %s: %w", path, errs.New(code, "decoder.ReadFrames")))
		return errs.OutOfMemory
	}

	left := make([]float32, read)
	right := make([]float32, read)
	for i := 0; i < read; i++ {
		left[i] = interleaved[i*2]
		right[i] = interleaved[i*2+1]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initOnce {
		return errs.NotInit
	}
	t := s.findTrack(id)
	if t == nil {
		return errs.InvalidTrack
	}
	if t.ClipCount >= track.MaxClips {
		return errs.ClipFull
	}
	lenBeats := float64(read) * s.Transport.BPM / (float64(s.SampleRate) * 60)
	c, code := clip.New(left, right, 0, lenBeats)
	if code != errs.OK {
		return code
	}
	return t.AddClip(c)
}

func (s *Scene) sampleRateSnapshot() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SampleRate
}
