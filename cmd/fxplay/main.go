// Command fxplay renders a test tone through an effect session and plays
// it on the default audio device.
//
// Usage:
//
//	fxplay [flags]
//
// The tone passes through the equalizer slot of a session backed by the
// simulated engine, so preset selection and master level audibly change
// the output.
//
// Examples:
//
//	fxplay -preset Rock
//	fxplay -freq 220 -dur 5s -level -12
//	fxplay -list
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-fxbundle/engine/sim"
	"github.com/cwbudde/algo-fxbundle/preset"
	"github.com/cwbudde/algo-fxbundle/session"
)

const (
	channels    = 2
	blockFrames = 1024
)

func main() {
	presetName := flag.String("preset", "Normal", "equalizer preset name (see -list)")
	freq := flag.Float64("freq", 440, "tone frequency in Hz")
	dur := flag.Duration("dur", 3*time.Second, "tone duration")
	rate := flag.Int("rate", 44100, "sample rate in Hz")
	level := flag.Int("level", 0, "master level in dB")
	list := flag.Bool("list", false, "list available preset names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a test tone through an effect session and plays it.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fxplay -preset Rock\n")
		fmt.Fprintf(os.Stderr, "  fxplay -freq 220 -dur 5s -level -12\n")
	}
	flag.Parse()

	if *list {
		printPresets()
		return
	}

	idx := preset.Index(*presetName)
	if idx == preset.Custom {
		fmt.Fprintf(os.Stderr, "error: unknown preset %q (use -list to see available)\n", *presetName)
		os.Exit(1)
	}

	pcm, err := render(idx, *freq, *dur, *rate, *level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("playing %.0f Hz for %s through the %s preset at %d dB\n",
		*freq, *dur, preset.Name(idx), *level)

	if err := play(pcm, *rate); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printPresets() {
	for i := range preset.Count() {
		fmt.Println(preset.Name(i))
	}
}

// render runs a stereo sine tone through the session block by block and
// returns the processed samples as float32 little-endian bytes.
func render(presetIdx int, freq float64, dur time.Duration, rate, level int) ([]byte, error) {
	s, err := session.New(sim.Factory,
		session.WithSampleRate(rate),
		session.WithChannels(channels),
		session.WithMasterLevel(level),
	)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.SetPreset(presetIdx); err != nil {
		return nil, err
	}

	if err := s.Enable(session.Equalizer); err != nil {
		return nil, err
	}

	frames := int(float64(rate) * dur.Seconds())

	in := make([]float64, blockFrames*channels)
	out := make([]float64, blockFrames*channels)
	pcm := bytes.NewBuffer(make([]byte, 0, frames*channels*4))

	phase := 0.0
	step := 2 * math.Pi * freq / float64(rate)

	for rendered := 0; rendered < frames; rendered += blockFrames {
		n := min(blockFrames, frames-rendered)

		for f := range n {
			v := 0.5 * math.Sin(phase)
			phase += step

			in[f*channels] = v
			in[f*channels+1] = v
		}

		if _, err := s.Process(session.Equalizer, in[:n*channels], out[:n*channels]); err != nil {
			return nil, err
		}

		for _, v := range out[:n*channels] {
			if err := binary.Write(pcm, binary.LittleEndian, float32(v)); err != nil {
				return nil, err
			}
		}
	}

	return pcm.Bytes(), nil
}

func play(pcm []byte, rate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	p := ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()

	for p.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return p.Close()
}
