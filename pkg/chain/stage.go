package chain

import (
	"github.com/rs/zerolog"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/dsp/dynamics"
	"github.com/hamic/micpipeline/pkg/dsp/eq"
	"github.com/hamic/micpipeline/pkg/dsp/gain"
	"github.com/hamic/micpipeline/pkg/dsp/noise"
)

// Stage is the capability set every slot dispatches through: process,
// reset and report latency. Create/update/destroy are the Manager's job
// (construct, call applyUpdate, drop the reference).
type Stage interface {
	Process(blk *audio.Block) error
	Reset()
	Latency() int64
}

// updatableStage additionally accepts in-place reparameterization without
// a destroy/create cycle, used when a slot's kind doesn't change.
type updatableStage interface {
	Stage
	applyUpdate(p Params)
}

type gainStage struct{ s *gain.Stage }

func (a *gainStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *gainStage) Reset()                       { a.s.Reset() }
func (a *gainStage) Latency() int64               { return a.s.Latency() }
func (a *gainStage) applyUpdate(p Params)          { a.s.Update(p.Gain) }

type eqStage struct{ s *eq.Stage }

func (a *eqStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *eqStage) Reset()                       { a.s.Reset() }
func (a *eqStage) Latency() int64               { return a.s.Latency() }
func (a *eqStage) applyUpdate(p Params)          { a.s.Update(p.Equalizer3) }

type compressorStage struct{ s *dynamics.Compressor }

func (a *compressorStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *compressorStage) Reset()                       { a.s.Reset() }
func (a *compressorStage) Latency() int64               { return a.s.Latency() }
func (a *compressorStage) applyUpdate(p Params)          { a.s.Update(p.Compressor) }

type expanderStage struct{ s *dynamics.Expander }

func (a *expanderStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *expanderStage) Reset()                       { a.s.Reset() }
func (a *expanderStage) Latency() int64               { return a.s.Latency() }
func (a *expanderStage) applyUpdate(p Params)          { a.s.Update(p.Expander) }

type noiseGateStage struct{ s *dynamics.NoiseGate }

func (a *noiseGateStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *noiseGateStage) Reset()                       { a.s.Reset() }
func (a *noiseGateStage) Latency() int64               { return a.s.Latency() }
func (a *noiseGateStage) applyUpdate(p Params)          { a.s.Update(p.NoiseGate) }

type limiterStage struct{ s *dynamics.Limiter }

func (a *limiterStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *limiterStage) Reset()                       { a.s.Reset() }
func (a *limiterStage) Latency() int64               { return a.s.Latency() }
func (a *limiterStage) applyUpdate(p Params)          { a.s.Update(p.Limiter) }

type upwardStage struct{ s *dynamics.UpwardCompressor }

func (a *upwardStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *upwardStage) Reset()                       { a.s.Reset() }
func (a *upwardStage) Latency() int64               { return a.s.Latency() }
func (a *upwardStage) applyUpdate(p Params)          { a.s.Update(p.UpwardCompressor) }

type invertStage struct{ s *dynamics.InvertPolarity }

func (a *invertStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *invertStage) Reset()                       { a.s.Reset() }
func (a *invertStage) Latency() int64               { return a.s.Latency() }
func (a *invertStage) applyUpdate(p Params)          {}

type noiseStage struct{ s *noise.Stage }

func (a *noiseStage) Process(b *audio.Block) error { return a.s.Process(b) }
func (a *noiseStage) Reset()                       { a.s.Reset() }
func (a *noiseStage) Latency() int64               { return a.s.Latency() }
func (a *noiseStage) applyUpdate(p Params)          { a.s.Update(p.NoiseSuppress) }

// createStage constructs a new stage instance for kind, applying p's
// matching field as its initial parameters.
func createStage(kind StageKind, channels int, sampleRate float64, p Params, denoiser noise.Denoiser, logger zerolog.Logger) (updatableStage, error) {
	switch kind {
	case KindGain:
		return &gainStage{gain.New(p.Gain)}, nil
	case KindEqualizer3:
		return &eqStage{eq.New(channels, sampleRate, p.Equalizer3)}, nil
	case KindCompressor:
		return &compressorStage{dynamics.NewCompressor(sampleRate, p.Compressor)}, nil
	case KindExpander:
		return &expanderStage{dynamics.NewExpander(channels, sampleRate, p.Expander)}, nil
	case KindNoiseGate:
		return &noiseGateStage{dynamics.NewNoiseGate(channels, sampleRate, p.NoiseGate)}, nil
	case KindLimiter:
		return &limiterStage{dynamics.NewLimiter(channels, sampleRate, p.Limiter)}, nil
	case KindUpwardCompressor:
		return &upwardStage{dynamics.NewUpwardCompressor(sampleRate, p.UpwardCompressor)}, nil
	case KindInvertPolarity:
		return &invertStage{dynamics.NewInvertPolarity()}, nil
	case KindNoiseSuppress:
		if !frameDenoiserEnabled && p.NoiseSuppress.Method == noise.MethodFrameDenoiser {
			return nil, newErr(LibraryNotAvailable, -1, kind, nil)
		}
		return &noiseStage{noise.New(sampleRate, denoiser, logger, p.NoiseSuppress)}, nil
	default:
		return nil, newErr(InvalidFilterType, -1, kind, nil)
	}
}
