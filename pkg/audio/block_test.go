package audio

import (
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	ch0 := make([]float32, 480)
	ch1 := make([]float32, 480)

	tests := []struct {
		name    string
		block   Block
		wantErr error
	}{
		{
			name:    "valid",
			block:   Block{Data: [][]float32{ch0, ch1}, Frames: 480, Channels: 2, SampleRate: 48000},
			wantErr: nil,
		},
		{
			name:    "zero frames",
			block:   Block{Data: [][]float32{ch0, ch1}, Frames: 0, Channels: 2, SampleRate: 48000},
			wantErr: ErrEmptyBlock,
		},
		{
			name:    "missing channel",
			block:   Block{Data: [][]float32{ch0}, Frames: 480, Channels: 2, SampleRate: 48000},
			wantErr: ErrNoChannelData,
		},
		{
			name:    "nil channel data",
			block:   Block{Data: [][]float32{ch0, nil}, Frames: 480, Channels: 2, SampleRate: 48000},
			wantErr: ErrNoChannelData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.block.Validate(2, 48000); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormatMismatch(t *testing.T) {
	ch0 := make([]float32, 480)
	b := Block{Data: [][]float32{ch0}, Frames: 480, Channels: 1, SampleRate: 44100}

	if err := b.Validate(2, 0); err != ErrFormatMismatch {
		t.Errorf("channel mismatch: got %v", err)
	}
	if err := b.Validate(0, 48000); err != ErrFormatMismatch {
		t.Errorf("rate mismatch: got %v", err)
	}
	if err := b.Validate(0, 0); err != nil {
		t.Errorf("unconstrained validate: got %v", err)
	}
}

func TestDbLinearRoundTrip(t *testing.T) {
	for _, db := range []float64{-30, -6, 0, 6, 30} {
		lin := DbToLinear(db)
		back := LinearToDb(lin)
		if math.Abs(back-db) > 1e-9 {
			t.Errorf("round trip %v dB -> %v -> %v", db, lin, back)
		}
	}
}

func TestLinearToDbFloor(t *testing.T) {
	if got := LinearToDb(0); math.IsInf(got, -1) || math.IsNaN(got) {
		t.Errorf("LinearToDb(0) = %v, want finite", got)
	}
}

func TestPeakRMS(t *testing.T) {
	buf := []float32{0.1, -0.9, 0.3, -0.2}
	if p := Peak(buf); p != 0.9 {
		t.Errorf("Peak() = %v, want 0.9", p)
	}
	if r := RMS(buf); r <= 0 || r > 1 {
		t.Errorf("RMS() = %v, want in (0,1]", r)
	}
	if RMS(nil) != 0 {
		t.Errorf("RMS(nil) should be 0")
	}
}
