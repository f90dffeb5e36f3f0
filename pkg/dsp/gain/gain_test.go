package gain

import (
	"math"
	"testing"

	"github.com/hamic/micpipeline/pkg/audio"
)

func block(frames int, channels int, fill float32) *audio.Block {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range data[c] {
			data[c][i] = fill
		}
	}
	return &audio.Block{Data: data, Frames: frames, Channels: channels, SampleRate: 48000}
}

func TestGainAppliesMultiplier(t *testing.T) {
	tests := []struct {
		name    string
		gainDB  float64
		wantMul float64
	}{
		{"unity", 0, 1.0},
		{"plus6", 6.0, 1.9952623},
		{"minus6", -6.0, 0.5011872},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Params{GainDB: tt.gainDB})
			b := block(480, 2, 0.1)
			if err := s.Process(b); err != nil {
				t.Fatalf("Process() error: %v", err)
			}
			for c := 0; c < b.Channels; c++ {
				for i, v := range b.Channel(c) {
					want := float32(0.1 * tt.wantMul)
					if math.Abs(float64(v-want)) > 1e-6 {
						t.Fatalf("channel %d sample %d = %v, want %v", c, i, v, want)
					}
				}
			}
		})
	}
}

func TestGainRoundTrip(t *testing.T) {
	up := New(Params{GainDB: 6})
	down := New(Params{GainDB: -6})

	b := block(480, 2, 0.25)
	orig := append([]float32(nil), b.Channel(0)...)

	if err := up.Process(b); err != nil {
		t.Fatal(err)
	}
	if err := down.Process(b); err != nil {
		t.Fatal(err)
	}

	for i, v := range b.Channel(0) {
		if math.Abs(float64(v-orig[i])) > 1e-6 {
			t.Fatalf("round trip sample %d = %v, want %v", i, v, orig[i])
		}
	}
}

func TestGainUpdateTakesEffectNextProcess(t *testing.T) {
	s := New(DefaultParams())
	b := block(16, 1, 1.0)
	_ = s.Process(b)
	if b.Channel(0)[0] != 1.0 {
		t.Fatalf("unity gain changed signal")
	}

	s.Update(Params{GainDB: -6})
	b2 := block(16, 1, 1.0)
	_ = s.Process(b2)
	if b2.Channel(0)[0] == 1.0 {
		t.Fatalf("Update() had no effect on next Process()")
	}
}

func TestGainResetIsNoop(t *testing.T) {
	s := New(Params{GainDB: 3})
	s.Reset()
	s.Reset()
	b := block(8, 1, 0)
	if err := s.Process(b); err != nil {
		t.Fatal(err)
	}
	for _, v := range b.Channel(0) {
		if v != 0 {
			t.Fatalf("silence in should be silence out, got %v", v)
		}
	}
}
