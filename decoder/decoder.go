// Package decoder defines the audio-file-decoder collaborator contract: an
// external component that turns a file path into interleaved stereo f32
// PCM at the engine's sample rate. The core only depends on this
// interface; decoding itself is explicitly out of the core's scope.
package decoder

import "dawcore/errs"

// Decoder opens audio files and exposes the operations a loaded file
// needs: open, length in frames, read frames, close.
type Decoder interface {
	// Open opens path for decoding as interleaved stereo f32 at sampleRate.
	// Returns errs.FileNotFound (via the returned code) on open failure.
	Open(path string, sampleRate int) (File, errs.Code)
}

// File is an open decode handle.
type File interface {
	// LengthInFrames returns the total frame count, or 0 if unknown.
	LengthInFrames() int

	// ReadFrames reads up to len(dst)/2 frames of interleaved stereo f32
	// into dst, returning the number of frames actually read and errs.OK,
	// or a non-OK code on failure.
	ReadFrames(dst []float32, maxFrames int) (int, errs.Code)

	// Close releases the decoder handle.
	Close() error
}
