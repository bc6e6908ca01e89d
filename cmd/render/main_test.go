package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestPCM16ClampsFullScale(t *testing.T) {
	t.Parallel()

	if got := pcm16(2); got != 32767 {
		t.Fatalf("overdriven sample: got %d, want 32767", got)
	}
	if got := pcm16(-2); got != -32767 {
		t.Fatalf("overdriven sample: got %d, want -32767", got)
	}
	if got := pcm16(0); got != 0 {
		t.Fatalf("silence: got %d, want 0", got)
	}
}

func TestRenderWritesValidWav(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := render(path, 44100, 480, false); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open rendered file: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("rendered file is not a valid WAV")
	}

	format := dec.Format()
	if format.NumChannels != 2 {
		t.Fatalf("channels = %d, want 2", format.NumChannels)
	}
	if format.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", format.SampleRate)
	}
}
