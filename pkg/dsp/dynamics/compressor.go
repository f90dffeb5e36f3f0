// Package dynamics implements the chain's downward dynamics stages:
// Compressor, Expander/Gate, NoiseGate, Limiter, UpwardCompressor and
// InvertPolarity. Each carries its state exclusively and exposes the same
// Process/Reset/Latency capability set the chain manager dispatches
// through.
package dynamics

import (
	"math"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// CompressorParams are the downward compressor's parameters.
type CompressorParams struct {
	Ratio        float64 // 1..20
	ThresholdDB  float64
	AttackMs     float64
	ReleaseMs    float64
	OutputGainDB float64
}

// DefaultCompressorParams returns the documented default: ratio 10,
// threshold -18 dB, attack 6 ms, release 60 ms, out 0 dB.
func DefaultCompressorParams() CompressorParams {
	return CompressorParams{Ratio: 10, ThresholdDB: -18, AttackMs: 6, ReleaseMs: 60, OutputGainDB: 0}
}

type compressorCoeffs struct {
	a     float64
	r     float64
	slope float64
	outG  float64
}

// Compressor is the single-band downward compressor. It carries one
// scalar envelope shared across channels, updated sequentially within a
// block — an intentional cross-channel coupling that must not be
// decorrelated per channel.
type Compressor struct {
	sampleRate float64

	box    *paramstore.Box[CompressorParams]
	cached *CompressorParams
	coef   compressorCoeffs

	env     float64
	maxEnv  []float32 // per-block scratch, grown monotonically
}

// NewCompressor creates a Compressor at sampleRate with the given initial
// parameters.
func NewCompressor(sampleRate float64, params CompressorParams) *Compressor {
	c := &Compressor{sampleRate: sampleRate, box: paramstore.NewBox(params)}
	c.refresh()
	return c
}

// Update publishes new parameters for the next Process call.
func (c *Compressor) Update(params CompressorParams) {
	c.box.Store(params)
}

func (c *Compressor) refresh() {
	p := c.box.Load()
	if p == c.cached {
		return
	}
	c.cached = p
	c.coef = compressorCoeffs{
		a:     math.Exp(-1.0 / (c.sampleRate * p.AttackMs / 1000.0)),
		r:     math.Exp(-1.0 / (c.sampleRate * p.ReleaseMs / 1000.0)),
		slope: 1.0 - 1.0/p.Ratio,
		outG:  audio.DbToLinear(p.OutputGainDB),
	}
}

// Process runs the two-pass envelope-then-apply algorithm over every
// channel of blk in place.
func (c *Compressor) Process(blk *audio.Block) error {
	c.refresh()

	if cap(c.maxEnv) < blk.Frames {
		c.maxEnv = make([]float32, blk.Frames)
	}
	maxEnv := c.maxEnv[:blk.Frames]
	for i := range maxEnv {
		maxEnv[i] = 0
	}

	a, r := c.coef.a, c.coef.r
	env := c.env
	for ch := 0; ch < blk.Channels; ch++ {
		x := blk.Channel(ch)
		for i := 0; i < blk.Frames; i++ {
			abs := math.Abs(float64(x[i]))
			if env < abs {
				env = abs + a*(env-abs)
			} else {
				env = abs + r*(env-abs)
			}
			if float32(env) > maxEnv[i] {
				maxEnv[i] = float32(env)
			}
		}
	}
	c.env = env

	threshold, slope, outG := c.cached.ThresholdDB, c.coef.slope, c.coef.outG
	for ch := 0; ch < blk.Channels; ch++ {
		x := blk.Channel(ch)
		for i := 0; i < blk.Frames; i++ {
			envDB := audio.LinearToDb(float64(maxEnv[i]))
			gainDB := slope * (threshold - envDB)
			if gainDB > 0 {
				gainDB = 0
			}
			g := audio.DbToLinear(gainDB) * outG
			x[i] = float32(float64(x[i]) * g)
		}
	}
	return nil
}

// Reset zeros the shared envelope.
func (c *Compressor) Reset() {
	c.env = 0
}

// Latency is zero: the compressor has no lookahead.
func (c *Compressor) Latency() int64 { return 0 }
