package dynamics

import (
	"math"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// UpwardCompressorParams mirror the downward Compressor's shape: upward
// compression is the same two-pass envelope design with
// slope = 1/ratio - 1 applied only when the signal is below threshold.
type UpwardCompressorParams struct {
	Ratio        float64
	ThresholdDB  float64
	AttackMs     float64
	ReleaseMs    float64
	OutputGainDB float64
}

// DefaultUpwardCompressorParams returns the documented default: ratio 2,
// threshold -30 dB, attack 10 ms, release 50 ms, out 0 dB.
func DefaultUpwardCompressorParams() UpwardCompressorParams {
	return UpwardCompressorParams{Ratio: 2, ThresholdDB: -30, AttackMs: 10, ReleaseMs: 50, OutputGainDB: 0}
}

// UpwardCompressor shares the downward Compressor's two-pass, shared-
// envelope structure, but its slope is 1/ratio - 1 and only applies below
// threshold, boosting quiet signal instead of attenuating loud signal.
type UpwardCompressor struct {
	sampleRate float64

	box    *paramstore.Box[UpwardCompressorParams]
	cached *UpwardCompressorParams
	coef   compressorCoeffs

	env    float64
	maxEnv []float32
}

// NewUpwardCompressor creates an UpwardCompressor at sampleRate.
func NewUpwardCompressor(sampleRate float64, params UpwardCompressorParams) *UpwardCompressor {
	u := &UpwardCompressor{sampleRate: sampleRate, box: paramstore.NewBox(params)}
	u.refresh()
	return u
}

// Update publishes new parameters for the next Process call.
func (u *UpwardCompressor) Update(params UpwardCompressorParams) {
	u.box.Store(params)
}

func (u *UpwardCompressor) refresh() {
	p := u.box.Load()
	if p == u.cached {
		return
	}
	u.cached = p
	u.coef = compressorCoeffs{
		a:     math.Exp(-1.0 / (u.sampleRate * p.AttackMs / 1000.0)),
		r:     math.Exp(-1.0 / (u.sampleRate * p.ReleaseMs / 1000.0)),
		slope: 1.0/p.Ratio - 1.0,
		outG:  audio.DbToLinear(p.OutputGainDB),
	}
}

// Process runs the same envelope-then-apply two passes as Compressor, but
// gain is only applied below threshold, boosting quiet passages.
func (u *UpwardCompressor) Process(blk *audio.Block) error {
	u.refresh()

	if cap(u.maxEnv) < blk.Frames {
		u.maxEnv = make([]float32, blk.Frames)
	}
	maxEnv := u.maxEnv[:blk.Frames]
	for i := range maxEnv {
		maxEnv[i] = 0
	}

	a, r := u.coef.a, u.coef.r
	env := u.env
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
	u.env = env

	threshold, slope, outG := u.cached.ThresholdDB, u.coef.slope, u.coef.outG
	for ch := 0; ch < blk.Channels; ch++ {
		x := blk.Channel(ch)
		for i := 0; i < blk.Frames; i++ {
			envDB := audio.LinearToDb(float64(maxEnv[i]))
			gainDB := 0.0
			if envDB < threshold {
				// slope = 1/ratio - 1 is negative; (envDB-threshold) is
				// negative below threshold, so their product is a
				// positive boost that grows as envDB falls further under
				// threshold.
				gainDB = slope * (envDB - threshold)
				if gainDB < 0 {
					gainDB = 0
				}
			}
			g := audio.DbToLinear(gainDB) * outG
			x[i] = float32(float64(x[i]) * g)
		}
	}
	return nil
}

// Reset zeros the shared envelope.
func (u *UpwardCompressor) Reset() {
	u.env = 0
}

// Latency is zero.
func (u *UpwardCompressor) Latency() int64 { return 0 }
