// Command play renders the demonstration arrangement live to the
// default audio device.
//
// Usage:
//
//	play [flags]
//
// Examples:
//
//	play
//	play --tempo 150
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/pflag"

	"github.com/dragoncoder047/dragonbox-sub004/internal/demosong"
)

func main() {
	var (
		rate  int
		tempo float64
	)
	pflag.IntVarP(&rate, "rate", "r", 44100, "playback sample rate in Hz")
	pflag.Float64VarP(&tempo, "tempo", "t", 120, "song tempo in beats per minute")
	pflag.Parse()

	if err := play(rate, tempo); err != nil {
		fmt.Fprintln(os.Stderr, "play:", err)
		os.Exit(1)
	}
}

func play(rate int, tempo float64) error {
	seq, err := demosong.New(float64(rate), tempo)
	if err != nil {
		return err
	}

	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   100 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(&songReader{seq: seq})
	defer player.Close()
	player.Play()

	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return nil
}

// songReader streams the sequencer's output as interleaved little-endian
// float32 stereo frames and reports EOF once the song has rung out.
type songReader struct {
	seq   *demosong.Sequencer
	left  []float64
	right []float64
	pos   int
}

func (r *songReader) Read(p []byte) (int, error) {
	const frameBytes = 8

	n := 0
	for n+frameBytes <= len(p) {
		if r.pos >= len(r.left) {
			if r.seq.Done() {
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
			r.left, r.right = r.seq.NextTick()
			r.pos = 0
			continue
		}

		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(float32(r.left[r.pos])))
		binary.LittleEndian.PutUint32(p[n+4:], math.Float32bits(float32(r.right[r.pos])))
		n += frameBytes
		r.pos++
	}

	return n, nil
}
