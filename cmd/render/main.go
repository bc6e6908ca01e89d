// Command render writes the demonstration arrangement to a WAV file.
//
// Usage:
//
//	render [flags] output.wav
//
// Examples:
//
//	render out.wav
//	render --tempo 90 out.wav
//	render --rate 48000 --tempo 140 out.wav
//	render --analyze out.wav
package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/dragoncoder047/dragonbox-sub004/dsp/core"
	"github.com/dragoncoder047/dragonbox-sub004/dsp/spectrum"
	"github.com/dragoncoder047/dragonbox-sub004/internal/demosong"
)

func main() {
	var (
		rate    int
		tempo   float64
		analyze bool
	)
	pflag.IntVarP(&rate, "rate", "r", 44100, "output sample rate in Hz")
	pflag.Float64VarP(&tempo, "tempo", "t", 120, "song tempo in beats per minute")
	pflag.BoolVarP(&analyze, "analyze", "a", false, "print the dominant frequency per second of rendered audio")
	pflag.Parse()

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: render [flags] output.wav")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	if err := render(args[0], rate, tempo, analyze); err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
}

func render(path string, rate int, tempo float64, analyze bool) error {
	seq, err := demosong.New(float64(rate), tempo)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  rate,
		},
		SourceBitDepth: 16,
	}

	frames := 0
	var mono []float64
	for !seq.Done() {
		left, right := seq.NextTick()

		buf.Data = buf.Data[:0]
		for i := range left {
			buf.Data = append(buf.Data, pcm16(left[i]), pcm16(right[i]))
			if analyze {
				mono = append(mono, 0.5*(left[i]+right[i]))
			}
		}
		frames += len(left)

		if err := enc.Write(buf); err != nil {
			return err
		}
	}

	if err := enc.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %d frames (%.2f s) to %s\n",
		frames, float64(frames)/float64(rate), path)

	if analyze {
		return printDominantFrequencies(mono, rate)
	}

	return nil
}

// printDominantFrequencies reports the strongest spectral bin for each
// second of rendered audio.
func printDominantFrequencies(mono []float64, rate int) error {
	const fftSize = 8192

	an, err := spectrum.NewAnalyzer(fftSize)
	if err != nil {
		return err
	}

	mags := make([]float64, an.NumBins())
	for start := 0; start < len(mono); start += rate {
		end := start + fftSize
		if end > len(mono) {
			end = len(mono)
		}

		if _, err := an.Magnitudes(mags, mono[start:end]); err != nil {
			return err
		}

		bin := spectrum.DominantBin(mags)
		fmt.Printf("t=%4ds  dominant %7.1f Hz\n",
			start/rate, an.BinFrequency(bin, float64(rate)))
	}

	return nil
}

func pcm16(x float64) int {
	return int(core.Clamp(x, -1, 1) * 32767)
}
