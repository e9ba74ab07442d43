package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dawcore/errs"
	"dawcore/track"
)

func TestInitShutdown_Lifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.Ready())

	assert.Equal(t, errs.OK, s.Init(Config{}))
	assert.True(t, s.Ready())
	assert.Equal(t, errs.AlreadyInit, s.Init(Config{}))

	assert.Equal(t, errs.OK, s.Shutdown())
	assert.False(t, s.Ready())
	assert.Equal(t, errs.NotInit, s.Shutdown())
}

func TestInit_AppliesDefaults(t *testing.T) {
	s := New()
	s.Init(Config{})
	snap, _ := s.GetState()
	assert.Equal(t, 44100, snap.SampleRate)
	assert.Equal(t, 24, snap.BitDepth)
	assert.Equal(t, 512, snap.BufferFrames)
	assert.Equal(t, float32(1.0), snap.MasterVolume)
	assert.Equal(t, 120.0, snap.BPM)
}

func TestCreateTrack_BeforeInit(t *testing.T) {
	s := New()
	_, code := s.CreateTrack(track.Audio)
	assert.Equal(t, errs.NotInit, code)
}

func TestCreateTrack_MonotonicIDs(t *testing.T) {
	s := New()
	s.Init(Config{})
	id1, _ := s.CreateTrack(track.Audio)
	id2, _ := s.CreateTrack(track.Audio)
	assert.Less(t, id1, id2)
}

func TestCreateTrack_OutOfMemoryWhenFull(t *testing.T) {
	s := New()
	s.Init(Config{})
	for i := 0; i < MaxTracks; i++ {
		_, code := s.CreateTrack(track.Audio)
		assert.Equal(t, errs.OK, code)
	}
	_, code := s.CreateTrack(track.Audio)
	assert.Equal(t, errs.OutOfMemory, code)
}

func TestDestroyTrack_FreesSlot(t *testing.T) {
	s := New()
	s.Init(Config{})
	id, _ := s.CreateTrack(track.Audio)
	assert.Equal(t, errs.OK, s.DestroyTrack(id))
	assert.Equal(t, errs.InvalidTrack, s.DestroyTrack(id))

	_, code := s.TrackInfo(id)
	assert.Equal(t, errs.InvalidTrack, code)
}

func TestSetTrackSolo_RefreshesAnySolo(t *testing.T) {
	s := New()
	s.Init(Config{})
	id, _ := s.CreateTrack(track.Audio)

	s.WithLock(func(s *Scene) { assert.False(t, s.AnySolo()) })

	s.SetTrackSolo(id, true)
	s.WithLock(func(s *Scene) { assert.True(t, s.AnySolo()) })

	s.SetTrackSolo(id, false)
	s.WithLock(func(s *Scene) { assert.False(t, s.AnySolo()) })
}

func TestSetTrackVolume_ClampsAndPersists(t *testing.T) {
	s := New()
	s.Init(Config{})
	id, _ := s.CreateTrack(track.Audio)

	assert.Equal(t, errs.OK, s.SetTrackVolume(id, 9))
	info, _ := s.TrackInfo(id)
	assert.Equal(t, float32(2), info.Volume)
}

func TestSetTrackVolume_InvalidTrack(t *testing.T) {
	s := New()
	s.Init(Config{})
	assert.Equal(t, errs.InvalidTrack, s.SetTrackVolume(999, 1))
}

func TestMasterVolume(t *testing.T) {
	s := New()
	s.Init(Config{})
	assert.Equal(t, errs.OK, s.SetMasterVolume(3))
	l, _ := s.GetState()
	assert.Equal(t, float32(2), l.MasterVolume)
}

func TestGetState_BeforeInit(t *testing.T) {
	s := New()
	_, code := s.GetState()
	assert.Equal(t, errs.NotInit, code)
}
