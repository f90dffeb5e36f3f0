// Package noise implements the chain's noise-suppression front end: a
// scalar Simple fallback and a FrameDenoiser that buffers 480-sample/48kHz
// frames for an external denoiser, ported from filter_wrapper_noise_suppress.c.
package noise

import (
	"github.com/rs/zerolog"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// Method selects the noise-suppression algorithm.
type Method int

const (
	MethodSimple Method = iota
	MethodFrameDenoiser
)

// FrameSize is the external denoiser's fixed contract: 480 samples
// (10 ms) at 48 kHz.
const FrameSize = 480

// denoiserSampleRate is the only sample rate FrameDenoiser actually
// drives the external denoiser at; any other rate is pass-through.
const denoiserSampleRate = 48000.0

// frameScale matches the source's 2^15 pre-scale (32768.0, not
// 1<<15 - 1) going into and out of the external denoiser.
const frameScale = 32768.0

// Denoiser is the external black-box frame processor this stage
// delegates to: 480 mono samples in, 480 mono samples out, both
// pre-scaled by 2^15.
type Denoiser interface {
	ProcessFrame(frame [FrameSize]float32) [FrameSize]float32
}

// Params are the noise-suppression stage's parameters.
type Params struct {
	Method           Method
	SuppressLevelDB  float64 // -60..0, used by MethodSimple
	Intensity        float64 // 0..1, currently informational
}

// DefaultParams returns the documented default: -30 dB level,
// FrameDenoiser method, intensity 1.0.
func DefaultParams() Params {
	return Params{Method: MethodFrameDenoiser, SuppressLevelDB: -30, Intensity: 1.0}
}

// Stage implements both the Simple scalar-attenuation fallback and the
// FrameDenoiser ring-buffered external-denoiser path. Only channel 0 is
// processed (documented, not a silent detail); other channels pass
// through unmodified.
type Stage struct {
	sampleRate float64
	denoiser   Denoiser
	logger     zerolog.Logger

	box    *paramstore.Box[Params]
	cached *Params

	loggedRateMismatch bool

	inFrame    [FrameSize]float32
	inFilled   int
	outQueue   []float32
	outHead    int
}

// New creates a noise-suppression Stage. denoiser may be nil when
// Method is always Simple; it must be non-nil to exercise FrameDenoiser.
func New(sampleRate float64, denoiser Denoiser, logger zerolog.Logger, params Params) *Stage {
	s := &Stage{sampleRate: sampleRate, denoiser: denoiser, logger: logger, box: paramstore.NewBox(params)}
	s.refresh()
	return s
}

// Update publishes new parameters for the next Process call.
func (s *Stage) Update(params Params) {
	s.box.Store(params)
}

func (s *Stage) refresh() {
	p := s.box.Load()
	if p == s.cached {
		return
	}
	s.cached = p
}

// Process attenuates or denoises channel 0 of blk in place, per the
// configured Method.
func (s *Stage) Process(blk *audio.Block) error {
	s.refresh()
	if blk.Channels == 0 {
		return nil
	}
	ch0 := blk.Channel(0)

	switch s.cached.Method {
	case MethodSimple:
		g := float32(audio.DbToLinear(s.cached.SuppressLevelDB))
		for i := range ch0 {
			ch0[i] *= g
		}
	case MethodFrameDenoiser:
		s.processFrameDenoiser(ch0)
	}
	return nil
}

func (s *Stage) processFrameDenoiser(ch0 []float32) {
	if s.sampleRate != denoiserSampleRate {
		if !s.loggedRateMismatch {
			s.logger.Warn().
				Float64("sample_rate", s.sampleRate).
				Msg("noise: FrameDenoiser requires 48kHz, passing through")
			s.loggedRateMismatch = true
		}
		return
	}
	if s.denoiser == nil {
		if !s.loggedRateMismatch {
			s.logger.Warn().Msg("noise: FrameDenoiser has no denoiser configured, passing through")
			s.loggedRateMismatch = true
		}
		return
	}

	for i, x := range ch0 {
		s.inFrame[s.inFilled] = x * frameScale
		s.inFilled++
		if s.inFilled == FrameSize {
			out := s.denoiser.ProcessFrame(s.inFrame)
			s.inFilled = 0
			for _, v := range out {
				s.outQueue = append(s.outQueue, v/frameScale)
			}
		}

		if s.outHead < len(s.outQueue) {
			ch0[i] = s.outQueue[s.outHead]
			s.outHead++
		} else {
			ch0[i] = 0
		}
	}

	if s.outHead > 0 {
		s.outQueue = append(s.outQueue[:0], s.outQueue[s.outHead:]...)
		s.outHead = 0
	}
}

// Reset zeros the ring buffer and discards partial/pending output.
func (s *Stage) Reset() {
	s.inFilled = 0
	s.inFrame = [FrameSize]float32{}
	s.outQueue = s.outQueue[:0]
	s.outHead = 0
}

// Latency is the FrameDenoiser's one-frame buffering delay in
// nanoseconds (zero for Simple, which is a direct scalar multiply). It is
// reported whenever Method is FrameDenoiser, including when the stage
// passes audio through unbuffered (no denoiser, or a rate other than 48kHz).
func (s *Stage) Latency() int64 {
	if s.cached.Method != MethodFrameDenoiser {
		return 0
	}
	return int64(FrameSize / s.sampleRate * 1e9)
}
