package dynamics

import (
	"math"
	"testing"

	"github.com/hamic/micpipeline/pkg/audio"
)

func sineBlock(frames int, freq, sr float64, amp float32, channels int) *audio.Block {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range data[c] {
			data[c][i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/sr))
		}
	}
	return &audio.Block{Data: data, Frames: frames, Channels: channels, SampleRate: sr}
}

func TestCompressorNoOpAboveCeiling(t *testing.T) {
	c := NewCompressor(48000, CompressorParams{Ratio: 4, ThresholdDB: 60, AttackMs: 1, ReleaseMs: 10, OutputGainDB: 0})
	b := sineBlock(480, 1000, 48000, 0.5, 2)
	orig := append([]float32(nil), b.Channel(0)...)

	if err := c.Process(b); err != nil {
		t.Fatal(err)
	}
	for i, v := range b.Channel(0) {
		if math.Abs(float64(v-orig[i])) > 1e-5 {
			t.Fatalf("sample %d changed: got %v, want %v", i, v, orig[i])
		}
	}
}

func TestCompressorAttenuatesLoudInput(t *testing.T) {
	c := NewCompressor(48000, CompressorParams{Ratio: 2, ThresholdDB: -20, AttackMs: 1, ReleaseMs: 10, OutputGainDB: 0})
	b := sineBlock(4800, 1000, 48000, 0.5, 1) // ~ -6 dBFS peak

	if err := c.Process(b); err != nil {
		t.Fatal(err)
	}

	quarter := len(b.Channel(0)) * 3 / 4
	tail := b.Channel(0)[quarter:]
	rms := audio.RMS(tail)
	inRMS := audio.RMS(sineBlock(len(tail), 1000, 48000, 0.5, 1).Channel(0))

	attenDB := audio.LinearToDb(float64(inRMS)) - audio.LinearToDb(float64(rms))
	if math.Abs(attenDB-7.0) > 1.0 {
		t.Fatalf("steady-state attenuation = %v dB, want ~7 dB", attenDB)
	}
}

func TestCompressorResetIdempotent(t *testing.T) {
	c := NewCompressor(48000, DefaultCompressorParams())
	b := sineBlock(480, 1000, 48000, 0.8, 1)
	_ = c.Process(b)
	c.Reset()
	c.Reset()

	silence := &audio.Block{Data: [][]float32{make([]float32, 16)}, Frames: 16, Channels: 1, SampleRate: 48000}
	if err := c.Process(silence); err != nil {
		t.Fatal(err)
	}
	for _, v := range silence.Channel(0) {
		if v != 0 {
			t.Fatalf("silence after reset produced %v", v)
		}
	}
}

func TestCompressorCrossChannelEnvelopeSharing(t *testing.T) {
	// Loud channel 0 should raise the shared envelope and cause gain
	// reduction to bleed into a quiet channel 1 within the same block.
	c := NewCompressor(48000, CompressorParams{Ratio: 4, ThresholdDB: -40, AttackMs: 1, ReleaseMs: 50, OutputGainDB: 0})
	data := [][]float32{make([]float32, 256), make([]float32, 256)}
	for i := range data[0] {
		data[0][i] = 0.9
	}
	for i := range data[1] {
		data[1][i] = 0.01
	}
	b := &audio.Block{Data: data, Frames: 256, Channels: 2, SampleRate: 48000}

	if err := c.Process(b); err != nil {
		t.Fatal(err)
	}
	if b.Channel(1)[len(data[1])-1] >= 0.01 {
		t.Fatalf("quiet channel 1 wasn't affected by channel 0's envelope carry-over")
	}
}
