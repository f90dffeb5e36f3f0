// Package audio provides the planar float block type and the small set of
// numeric utilities (dB conversion, buffer validation, level measurement)
// that every DSP stage in this chain is built on.
package audio

import (
	"errors"
	"math"
)

// MinDB is the floor returned by LinearToDb for (near-)zero input.
const MinDB = -400.0

// dbEpsilon keeps lin_to_db finite instead of returning -Inf at x=0.
const dbEpsilon = 1e-20

// Block is a reference to one call's worth of planar float audio. It never
// owns its sample storage — Data's backing arrays belong to the host — and
// no pointer into Data may be retained past the call that received the
// Block.
type Block struct {
	// Data holds Channels independent contiguous sample arrays, each
	// Frames samples long. Channel i is Data[i], not interleaved.
	Data [][]float32

	Frames      int
	Channels    int
	SampleRate  float64
	TimestampNs int64
}

// ErrNoChannelData is returned by Validate when a channel slice is absent.
var ErrNoChannelData = errors.New("audio: missing channel data")

// ErrEmptyBlock is returned by Validate when Frames is zero.
var ErrEmptyBlock = errors.New("audio: zero frames")

// ErrFormatMismatch is returned by Validate when the block's channel count
// or sample rate disagrees with an expected, nonzero value.
var ErrFormatMismatch = errors.New("audio: format mismatch")

// Validate rejects a Block that cannot be processed: absent channel
// storage, zero frames, or (when expectedChannels/expectedRate are
// nonzero) a channel count or sample rate that disagrees with the
// pipeline's configuration.
func (b *Block) Validate(expectedChannels int, expectedRate float64) error {
	if b.Frames == 0 {
		return ErrEmptyBlock
	}
	if expectedChannels != 0 && b.Channels != expectedChannels {
		return ErrFormatMismatch
	}
	if expectedRate != 0 && b.SampleRate != expectedRate {
		return ErrFormatMismatch
	}
	if len(b.Data) < b.Channels {
		return ErrNoChannelData
	}
	for c := 0; c < b.Channels; c++ {
		if b.Data[c] == nil || len(b.Data[c]) < b.Frames {
			return ErrNoChannelData
		}
	}
	return nil
}

// Channel returns channel c's sample slice, trimmed to Frames.
func (b *Block) Channel(c int) []float32 {
	return b.Data[c][:b.Frames]
}

// DbToLinear converts a decibel value to a linear amplitude multiplier:
// db_to_lin(db) = 10^(db/20).
func DbToLinear(db float64) float64 {
	return math.Pow(10.0, db/20.0)
}

// LinearToDb converts a linear amplitude to decibels:
// lin_to_db(x) = 20*log10(max(x, eps)), eps = 1e-20, so the result is
// always finite instead of -Inf at x == 0.
func LinearToDb(x float64) float64 {
	if x < dbEpsilon {
		x = dbEpsilon
	}
	return 20.0 * math.Log10(x)
}

// Peak returns the maximum absolute sample value in buf.
func Peak(buf []float32) float32 {
	var peak float32
	for _, s := range buf {
		a := float32(math.Abs(float64(s)))
		if a > peak {
			peak = a
		}
	}
	return peak
}

// RMS returns the root-mean-square level of buf.
func RMS(buf []float32) float32 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, s := range buf {
		sum += float64(s) * float64(s)
	}
	return float32(math.Sqrt(sum / float64(len(buf))))
}

// Add accumulates src into dst in place, up to the shorter length.
func Add(dst, src []float32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}
