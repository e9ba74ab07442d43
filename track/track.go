// Package track implements the Track aggregate: a named mix strip holding
// gain/pan, mute/solo/arm flags, peak meters, and a bounded table of clips.
// Tracks carry no locking of their own — the scene package owns the single
// mutex that makes reads and writes to a Track's fields appear atomic to
// the realtime mixer.
package track

import (
	"math"

	"dawcore/clip"
	"dawcore/errs"
)

// Kind is the track type tag. Only Audio tracks contribute samples to the
// mix in this core; the others exist for API parity with a fuller DAW.
type Kind int

const (
	Audio Kind = iota
	MIDI
	Bus
	Master
)

// String returns the display-name prefix used when a track is created
// without an explicit name: "Audio", "MIDI", "Bus", or "Master".
func (k Kind) String() string {
	switch k {
	case Audio:
		return "Audio"
	case MIDI:
		return "MIDI"
	case Bus:
		return "Bus"
	case Master:
		return "Master"
	default:
		return "Unknown"
	}
}

// MaxClips is the per-track clip table capacity.
const MaxClips = 128

// Meter holds a stereo peak-follower pair in [0, 1].
type Meter struct {
	L, R float32
}

// Track is one mixer strip. Clips is a fixed-capacity slot table, not a
// growable slice, so clip indices stay stable across loads within a
// track's lifetime and the table stays cache-friendly and bounded for
// realtime use.
type Track struct {
	ID   uint32
	Kind Kind
	Name string

	Volume float32 // [0, 2]
	Pan    float32 // [-1, +1]

	Mute  bool
	Solo  bool
	Armed bool

	Meter Meter

	Clips     [MaxClips]*clip.Clip
	ClipCount int
	nextSlot  int
}

// New creates a Track with the defaults: vol=1.0, pan=0.0, all
// flags false, zero clips.
func New(id uint32, kind Kind, name string) *Track {
	return &Track{
		ID:     id,
		Kind:   kind,
		Name:   name,
		Volume: 1.0,
		Pan:    0.0,
	}
}

// ClampVolume restricts v to [0, 2].
func ClampVolume(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

// ClampPan restricts p to [-1, +1].
func ClampPan(p float32) float32 {
	if p < -1 {
		return -1
	}
	if p > 1 {
		return 1
	}
	return p
}

// SetVolume clamps and stores the volume. Always succeeds (the value is
// clamped into range rather than rejected).
func (t *Track) SetVolume(v float32) {
	t.Volume = ClampVolume(v)
}

// SetPan clamps and stores the pan.
func (t *Track) SetPan(p float32) {
	t.Pan = ClampPan(p)
}

// SetName truncates to 63 bytes, leaving room for the implicit NUL a C
// caller would append across the ABI.
func (t *Track) SetName(name string) {
	const maxLen = 63
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	t.Name = name
}

// AddClip inserts a built clip into the next free slot. Returns ClipFull
// when the table has no room.
func (t *Track) AddClip(c *clip.Clip) errs.Code {
	if t.ClipCount >= MaxClips {
		return errs.ClipFull
	}
	for i := 0; i < MaxClips; i++ {
		slot := (t.nextSlot + i) % MaxClips
		if t.Clips[slot] == nil {
			t.Clips[slot] = c
			t.nextSlot = (slot + 1) % MaxClips
			t.ClipCount++
			return errs.OK
		}
	}
	return errs.ClipFull
}

// ReleaseClips drops every clip reference so their PCM becomes eligible for
// garbage collection. Called on track destruction and engine shutdown.
func (t *Track) ReleaseClips() {
	for i := range t.Clips {
		t.Clips[i] = nil
	}
	t.ClipCount = 0
	t.nextSlot = 0
}

// PanGains computes the constant-power pan gain pair for this track's
// current pan and volume: a = (pan+1) * pi/4, gL = cos(a) * vol,
// gR = sin(a) * vol.
func (t *Track) PanGains() (gL, gR float32) {
	a := (float64(t.Pan) + 1) * math.Pi / 4
	return float32(math.Cos(a)) * t.Volume, float32(math.Sin(a)) * t.Volume
}

// UpdatePeak applies the asymmetric peak-follower metering rule:
// peak <- max(|s|, peak * 0.9997).
func UpdatePeak(peak, sample float32) float32 {
	decayed := peak * 0.9997
	abs := sample
	if abs < 0 {
		abs = -abs
	}
	if abs > decayed {
		return abs
	}
	return decayed
}
