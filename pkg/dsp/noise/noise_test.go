package noise

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hamic/micpipeline/pkg/audio"
)

type passthroughDenoiser struct{ calls int }

func (d *passthroughDenoiser) ProcessFrame(frame [FrameSize]float32) [FrameSize]float32 {
	d.calls++
	return frame
}

func block(frames int, fill float32, channels int) *audio.Block {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := range data[c] {
			data[c][i] = fill
		}
	}
	return &audio.Block{Data: data, Frames: frames, Channels: channels, SampleRate: 48000}
}

func TestSimpleAttenuatesChannelZeroOnly(t *testing.T) {
	s := New(48000, nil, zerolog.Nop(), Params{Method: MethodSimple, SuppressLevelDB: -20})
	b := block(16, 0.5, 2)
	if err := s.Process(b); err != nil {
		t.Fatal(err)
	}
	want := float32(0.5 * audio.DbToLinear(-20))
	for i, v := range b.Channel(0) {
		if math.Abs(float64(v-want)) > 1e-6 {
			t.Fatalf("channel 0 sample %d = %v, want %v", i, v, want)
		}
	}
	for i, v := range b.Channel(1) {
		if v != 0.5 {
			t.Fatalf("channel 1 sample %d was modified: got %v", i, v)
		}
	}
}

func TestFrameDenoiserDispatchesFullFrames(t *testing.T) {
	d := &passthroughDenoiser{}
	s := New(48000, d, zerolog.Nop(), Params{Method: MethodFrameDenoiser})

	b := block(FrameSize, 0.1, 1)
	if err := s.Process(b); err != nil {
		t.Fatal(err)
	}
	if d.calls != 1 {
		t.Fatalf("expected exactly one frame dispatch for %d samples, got %d", FrameSize, d.calls)
	}
}

func TestFrameDenoiserPassThroughOnRateMismatch(t *testing.T) {
	d := &passthroughDenoiser{}
	s := New(44100, d, zerolog.Nop(), Params{Method: MethodFrameDenoiser})

	b := block(480, 0.25, 1)
	orig := append([]float32(nil), b.Channel(0)...)
	if err := s.Process(b); err != nil {
		t.Fatal(err)
	}
	for i, v := range b.Channel(0) {
		if v != orig[i] {
			t.Fatalf("sample %d changed on rate mismatch: got %v, want %v", i, v, orig[i])
		}
	}
	if d.calls != 0 {
		t.Fatalf("denoiser should not be called on rate mismatch, got %d calls", d.calls)
	}
}

func TestResetClearsRingBuffer(t *testing.T) {
	d := &passthroughDenoiser{}
	s := New(48000, d, zerolog.Nop(), Params{Method: MethodFrameDenoiser})
	_ = s.Process(block(200, 0.2, 1)) // partial frame, never dispatched
	s.Reset()
	s.Reset()
	if s.inFilled != 0 {
		t.Fatalf("Reset() left inFilled = %d, want 0", s.inFilled)
	}
}

func TestLatencyReflectsMethod(t *testing.T) {
	simple := New(48000, nil, zerolog.Nop(), Params{Method: MethodSimple})
	if simple.Latency() != 0 {
		t.Fatalf("Simple latency = %v, want 0", simple.Latency())
	}

	fd := New(48000, &passthroughDenoiser{}, zerolog.Nop(), Params{Method: MethodFrameDenoiser})
	if fd.Latency() <= 0 {
		t.Fatalf("FrameDenoiser latency = %v, want > 0", fd.Latency())
	}
}
