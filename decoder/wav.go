package decoder

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"

	"dawcore/errs"
)

// WAVDecoder is a minimal PCM WAV implementation of Decoder. It supports
// 16-bit and 32-bit-float stereo WAV at an arbitrary sample rate. Since
// sample-rate conversion of mismatched clips is a non-goal, it does not
// resample — a file encoded at a different rate than the engine's is still
// decoded and placed as-is, with no correction.
//
// No WAV/PCM decode library appears anywhere in the retrieved example
// pack (only a resampling library, tphakala/go-audio-resampling, and
// general-purpose audio I/O libraries like portaudio, which move live PCM
// rather than parse file containers). With no library to ground this on,
// it is written directly against encoding/binary — see DESIGN.md.
type WAVDecoder struct{}

// Open implements Decoder.
func (WAVDecoder) Open(path string, sampleRate int) (File, errs.Code) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.FileNotFound
	}

	hdr, dataOffset, dataSize, format, err := readWAVHeader(f)
	if err != nil {
		f.Close()
		return nil, errs.FileNotFound
	}

	return &wavFile{
		f:          f,
		format:     format,
		channels:   int(hdr.numChannels),
		frameBytes: int(hdr.blockAlign),
		dataOffset: dataOffset,
		dataSize:   dataSize,
		pos:        0,
	}, errs.OK
}

type wavFormat int

const (
	formatPCM16 wavFormat = iota
	formatFloat32
)

type wavHeader struct {
	numChannels   uint16
	sampleRate    uint32
	blockAlign    uint16
	bitsPerSample uint16
	audioFormat   uint16
}

// readWAVHeader walks the RIFF/WAVE chunk list looking for "fmt " and
// "data", tolerating extra chunks (e.g. "LIST") in between.
func readWAVHeader(f *os.File) (wavHeader, int64, int64, wavFormat, error) {
	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return wavHeader{}, 0, 0, 0, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return wavHeader{}, 0, 0, 0, errors.New("not a WAV file")
	}

	var hdr wavHeader
	var haveFmt bool
	offset := int64(12)

	for {
		var chunkHdr [8]byte
		if _, err := io.ReadFull(f, chunkHdr[:]); err != nil {
			return wavHeader{}, 0, 0, 0, err
		}
		id := string(chunkHdr[0:4])
		size := int64(binary.LittleEndian.Uint32(chunkHdr[4:8]))
		offset += 8

		switch id {
		case "fmt ":
			buf := make([]byte, size)
			if _, err := io.ReadFull(f, buf); err != nil {
				return wavHeader{}, 0, 0, 0, err
			}
			hdr.audioFormat = binary.LittleEndian.Uint16(buf[0:2])
			hdr.numChannels = binary.LittleEndian.Uint16(buf[2:4])
			hdr.sampleRate = binary.LittleEndian.Uint32(buf[4:8])
			hdr.blockAlign = binary.LittleEndian.Uint16(buf[12:14])
			hdr.bitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			haveFmt = true
			offset += size
		case "data":
			if !haveFmt {
				return wavHeader{}, 0, 0, 0, errors.New("data chunk before fmt chunk")
			}
			format := formatPCM16
			if hdr.audioFormat == 3 && hdr.bitsPerSample == 32 {
				format = formatFloat32
			}
			return hdr, offset, size, format, nil
		default:
			if _, err := f.Seek(size, io.SeekCurrent); err != nil {
				return wavHeader{}, 0, 0, 0, err
			}
			offset += size
		}
		if size%2 == 1 {
			// chunks are word-aligned
			f.Seek(1, io.SeekCurrent)
			offset++
		}
	}
}

type wavFile struct {
	f          *os.File
	format     wavFormat
	channels   int
	frameBytes int
	dataOffset int64
	dataSize   int64
	pos        int64 // frames already consumed
}

// LengthInFrames implements File.
func (w *wavFile) LengthInFrames() int {
	if w.frameBytes == 0 {
		return 0
	}
	return int(w.dataSize / int64(w.frameBytes))
}

// ReadFrames implements File. It upmixes mono source files to stereo, a
// common real-world case, and decodes however many frames fit in dst,
// capped by maxFrames.
func (w *wavFile) ReadFrames(dst []float32, maxFrames int) (int, errs.Code) {
	total := w.LengthInFrames()
	remaining := total - int(w.pos)
	if remaining < 0 {
		remaining = 0
	}
	n := maxFrames
	if n > remaining {
		n = remaining
	}
	if n > len(dst)/2 {
		n = len(dst) / 2
	}
	if n <= 0 {
		return 0, errs.OK
	}

	if _, err := w.f.Seek(w.dataOffset+w.pos*int64(w.frameBytes), io.SeekStart); err != nil {
		return 0, errs.FileNotFound
	}

	raw := make([]byte, n*w.frameBytes)
	if _, err := io.ReadFull(w.f, raw); err != nil {
		return 0, errs.OutOfMemory
	}

	bytesPerSample := w.frameBytes / w.channels
	for i := 0; i < n; i++ {
		base := i * w.frameBytes
		l := w.decodeSample(raw[base : base+bytesPerSample])
		r := l
		if w.channels >= 2 {
			r = w.decodeSample(raw[base+bytesPerSample : base+2*bytesPerSample])
		}
		dst[i*2] = l
		dst[i*2+1] = r
	}

	w.pos += int64(n)
	return n, errs.OK
}

// Close implements File.
func (w *wavFile) Close() error {
	return w.f.Close()
}

func (w *wavFile) decodeSample(b []byte) float32 {
	switch w.format {
	case formatFloat32:
		bits := binary.LittleEndian.Uint32(b)
		return math.Float32frombits(bits)
	default: // formatPCM16
		v := int16(binary.LittleEndian.Uint16(b))
		return float32(v) / 32768.0
	}
}
