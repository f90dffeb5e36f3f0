package chain

import (
	"github.com/hamic/micpipeline/pkg/dsp/dynamics"
	"github.com/hamic/micpipeline/pkg/dsp/eq"
	"github.com/hamic/micpipeline/pkg/dsp/gain"
	"github.com/hamic/micpipeline/pkg/dsp/noise"
)

// Params is the discriminated union of every stage kind's parameter
// record. Only the field matching Kind is read by UpdateSlot; the others
// are ignored.
type Params struct {
	Kind StageKind

	Gain             gain.Params
	NoiseSuppress    noise.Params
	NoiseGate        dynamics.NoiseGateParams
	Compressor       dynamics.CompressorParams
	Limiter          dynamics.LimiterParams
	Expander         dynamics.ExpanderParams
	UpwardCompressor dynamics.UpwardCompressorParams
	Equalizer3       eq.Params
}

// DefaultParams returns kind's documented default parameters. The bool
// return is false (with InvalidParams semantics left to the caller) for
// an out-of-range kind.
func DefaultParams(kind StageKind) (Params, bool) {
	switch kind {
	case KindGain:
		return Params{Kind: kind, Gain: gain.DefaultParams()}, true
	case KindNoiseSuppress:
		return Params{Kind: kind, NoiseSuppress: noise.DefaultParams()}, true
	case KindNoiseGate:
		return Params{Kind: kind, NoiseGate: dynamics.DefaultNoiseGateParams()}, true
	case KindCompressor:
		return Params{Kind: kind, Compressor: dynamics.DefaultCompressorParams()}, true
	case KindLimiter:
		return Params{Kind: kind, Limiter: dynamics.DefaultLimiterParams()}, true
	case KindExpander:
		return Params{Kind: kind, Expander: dynamics.DefaultExpanderParams()}, true
	case KindUpwardCompressor:
		return Params{Kind: kind, UpwardCompressor: dynamics.DefaultUpwardCompressorParams()}, true
	case KindEqualizer3:
		return Params{Kind: kind, Equalizer3: eq.DefaultParams()}, true
	case KindInvertPolarity:
		return Params{Kind: kind}, true
	default:
		return Params{}, false
	}
}
