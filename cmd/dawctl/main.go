// Command dawctl is a small command-line front end driving the dawcore
// Engine end to end: init, create a track, optionally load a clip from a
// WAV file, play for a duration while printing periodic state snapshots,
// then shut down. It stands in for the native-process front ends the
// control API is designed for.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"dawcore"
	"dawcore/backend/fake"
	"dawcore/decoder"
	"dawcore/track"
)

func main() {
	var (
		bpm        = pflag.Float64P("bpm", "b", 120, "Transport tempo in beats per minute.")
		clipPath   = pflag.StringP("clip", "c", "", "WAV file to load onto the track (optional).")
		duration   = pflag.DurationP("duration", "d", 2*time.Second, "How long to run the transport before shutting down.")
		masterVol  = pflag.Float64P("master-volume", "m", 1.0, "Master volume, 0.0-2.0.")
		sampleRate = pflag.IntP("sample-rate", "r", 44100, "Engine sample rate in Hz.")
		help       = pflag.Bool("help", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: dawctl [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Drives a dawcore Engine against an in-process fake audio backend.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	be := fake.New()

	eng := dawcore.New()
	code := eng.Init(dawcore.Config{
		SampleRate:   *sampleRate,
		BufferFrames: 512,
		Backend:      be,
		Decoder:      decoder.WAVDecoder{},
	})
	if code != 0 {
		fmt.Fprintf(os.Stderr, "init failed: %s\n", dawcore.Strerror(code))
		os.Exit(1)
	}
	defer eng.Shutdown()

	if c := eng.SetBPM(*bpm); c != 0 {
		fmt.Fprintf(os.Stderr, "set bpm failed: %s\n", dawcore.Strerror(c))
		os.Exit(1)
	}
	if c := eng.SetMasterVolume(float32(*masterVol)); c != 0 {
		fmt.Fprintf(os.Stderr, "set master volume failed: %s\n", dawcore.Strerror(c))
		os.Exit(1)
	}

	trackID, code := eng.TrackCreate(track.Audio)
	if code != 0 {
		fmt.Fprintf(os.Stderr, "track create failed: %s\n", dawcore.Strerror(code))
		os.Exit(1)
	}

	if *clipPath != "" {
		if c := eng.TrackLoadFile(trackID, *clipPath); c != 0 {
			fmt.Fprintf(os.Stderr, "load file failed: %s\n", dawcore.Strerror(c))
			os.Exit(1)
		}
	}

	if c := eng.Play(); c != 0 {
		fmt.Fprintf(os.Stderr, "play failed: %s\n", dawcore.Strerror(c))
		os.Exit(1)
	}

	framesPerTick := *sampleRate / 10
	ticks := int(duration.Seconds() * 10)
	for i := 0; i < ticks; i++ {
		// Drive the fake backend as if it were a real device delivering
		// ~100ms periods, then report where the transport landed.
		for _, dev := range be.Devices() {
			dev.Pump(framesPerTick)
		}
		snap, _ := eng.GetState()
		fmt.Printf("bar %d beat %d | %.2fs | peak L=%.3f R=%.3f\n",
			snap.Bar, snap.Beat, snap.PositionSeconds, snap.MasterPeakL, snap.MasterPeakR)
	}
}
