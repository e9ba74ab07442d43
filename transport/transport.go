// Package transport owns the musical playhead: state, BPM, loop region, and
// the beat/second position pair kept in sync on every write. It has no
// dependency on the mixer or scene — the mixer reads a Transport value
// under the scene lock and advances it once per callback.
package transport

import "dawcore/errs"

// State is the transport's run state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
	Recording
)

// String implements fmt.Stringer for log/debug output.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Recording:
		return "recording"
	default:
		return "unknown"
	}
}

// Transport is the process-wide playhead and loop region. All fields are
// plain data; callers (scene) are responsible for the locking discipline —
// Transport itself does no locking.
type Transport struct {
	State State

	BPM float64

	PositionBeats   float64
	PositionSeconds float64

	LoopOn    bool
	LoopStart float64
	LoopEnd   float64
}

// New returns a Transport with the engine defaults: BPM 120, stopped,
// no loop.
func New() Transport {
	return Transport{
		State: Stopped,
		BPM:   120,
	}
}

// Play sets the state to Playing. It never fails.
func (t *Transport) Play() {
	t.State = Playing
}

// Stop halts the transport and resets the playhead to the origin, in both
// beats and seconds.
func (t *Transport) Stop() {
	t.State = Stopped
	t.PositionBeats = 0
	t.PositionSeconds = 0
}

// Pause transitions Playing -> Paused. Any other state is a no-op.
func (t *Transport) Pause() {
	if t.State == Playing {
		t.State = Paused
	}
}

// Record sets the state to Recording. Capture itself is a non-goal of this
// core; the state exists so front-ends can reflect it.
func (t *Transport) Record() {
	t.State = Recording
}

// Seek moves the playhead to the given beat, requiring beat >= 0, and
// recomputes PositionSeconds from the current BPM.
func (t *Transport) Seek(beat float64) errs.Code {
	if beat < 0 {
		return errs.InvalidParam
	}
	t.PositionBeats = beat
	t.PositionSeconds = beat * 60 / t.BPM
	return errs.OK
}

// SetBPM sets the tempo, requiring 1 < bpm < 999.
func (t *Transport) SetBPM(bpm float64) errs.Code {
	if bpm <= 1 || bpm >= 999 {
		return errs.InvalidParam
	}
	t.BPM = bpm
	return errs.OK
}

// SetLoop configures the loop region, requiring end > start when enabled.
// Disabling the loop (enabled == false) does not validate start/end, since
// a disabled loop's bounds are inert.
func (t *Transport) SetLoop(enabled bool, start, end float64) errs.Code {
	if enabled && end <= start {
		return errs.InvalidParam
	}
	t.LoopOn = enabled
	t.LoopStart = start
	t.LoopEnd = end
	return errs.OK
}

// Bar returns the 1-based bar number at the current position, assuming 4/4.
func (t *Transport) Bar() int {
	return int(t.PositionBeats/4) + 1
}

// Beat returns the 1-based beat-within-bar at the current position,
// assuming 4/4.
func (t *Transport) Beat() int {
	beatInBar := int(t.PositionBeats) % 4
	if beatInBar < 0 {
		beatInBar += 4
	}
	return beatInBar + 1
}

// IsAudible reports whether the mixer should produce sound for this state:
// true only for Playing and Recording.
func (s State) IsAudible() bool {
	return s == Playing || s == Recording
}
