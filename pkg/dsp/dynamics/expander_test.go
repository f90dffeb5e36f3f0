package dynamics

import (
	"math"
	"testing"

	"github.com/hamic/micpipeline/pkg/audio"
)

func TestExpanderAttenuatesQuietInput(t *testing.T) {
	e := NewExpander(1, 48000, DefaultExpanderParams())
	// One second of input: the 50 ms release ballistic needs several
	// time constants before the gain settles at its steady-state value.
	b := sineBlock(48000, 1000, 48000, dbToLinearHelper(-50), 1)

	if err := e.Process(b); err != nil {
		t.Fatal(err)
	}

	quarter := len(b.Channel(0)) * 3 / 4
	tail := b.Channel(0)[quarter:]
	peak := audio.Peak(tail)
	inPeak := dbToLinearHelper(-50)
	limit := inPeak * float32(audio.DbToLinear(-20))
	if peak >= limit {
		t.Fatalf("tail peak %v not attenuated below %v (20 dB down from input)", peak, limit)
	}
}

func TestExpanderPassesLoudInput(t *testing.T) {
	e := NewExpander(1, 48000, DefaultExpanderParams())
	b := sineBlock(4800, 1000, 48000, 1.0, 1)

	if err := e.Process(b); err != nil {
		t.Fatal(err)
	}

	quarter := len(b.Channel(0)) * 3 / 4
	tail := b.Channel(0)[quarter:]
	inTail := sineBlock(len(tail), 1000, 48000, 1.0, 1).Channel(0)

	for i := range tail {
		if math.Abs(float64(tail[i]-inTail[i])) > 0.02 {
			t.Fatalf("sample %d = %v, want ~%v (0 dB gain above threshold)", i, tail[i], inTail[i])
		}
	}
}

func TestExpanderResetIdempotent(t *testing.T) {
	e := NewExpander(1, 48000, DefaultExpanderParams())
	b := sineBlock(480, 1000, 48000, 0.001, 1)
	_ = e.Process(b)
	e.Reset()
	e.Reset()

	silence := &audio.Block{Data: [][]float32{make([]float32, 16)}, Frames: 16, Channels: 1, SampleRate: 48000}
	if err := e.Process(silence); err != nil {
		t.Fatal(err)
	}
	for _, v := range silence.Channel(0) {
		if v != 0 {
			t.Fatalf("silence after reset produced %v", v)
		}
	}
}

func TestExpanderPeakDetector(t *testing.T) {
	params := DefaultExpanderParams()
	params.DetectorType = DetectorPeak
	e := NewExpander(1, 48000, params)
	b := sineBlock(480, 1000, 48000, 0.5, 1)
	if err := e.Process(b); err != nil {
		t.Fatal(err)
	}
}

func dbToLinearHelper(db float64) float32 {
	return float32(audio.DbToLinear(db))
}
