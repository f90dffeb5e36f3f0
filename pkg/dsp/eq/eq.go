// Package eq implements the chain's fixed 3-band equalizer: a cascaded
// first-order low/high splitter with crossovers pinned at 800 Hz and
// 5000 Hz, ported from the reference C filter_wrapper_eq.c recursion.
package eq

import (
	"math"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

const (
	lowFreq  = 800.0
	highFreq = 5000.0

	// denormalEps is a DC bias preventing subnormal floats from stalling
	// the low-pass cascade on long silence. Load-bearing; keep exact.
	denormalEps = 1.0 / 4294967295.0
)

// Params holds the three independent band gains, in dB.
type Params struct {
	LowDB  float64
	MidDB  float64
	HighDB float64
}

// DefaultParams returns the chain's documented default: 0/0/0 dB.
func DefaultParams() Params {
	return Params{}
}

type channelState struct {
	lf [4]float32
	hf [4]float32
	sd [3]float32
}

func (s *channelState) reset() {
	*s = channelState{}
}

// Stage is the per-channel, per-sample 3-band splitter/recombiner
// described above. Latency is a fixed 3 samples.
type Stage struct {
	sampleRate float64

	box    *paramstore.Box[Params]
	cached *Params
	gL     float32
	gM     float32
	gH     float32

	lfCoef float32
	hfCoef float32

	state []channelState
}

// New creates an EQ stage sized for channels channels at sampleRate.
func New(channels int, sampleRate float64, params Params) *Stage {
	s := &Stage{
		sampleRate: sampleRate,
		box:        paramstore.NewBox(params),
		state:      make([]channelState, channels),
	}
	s.lfCoef = float32(2.0 * math.Sin(math.Pi*lowFreq/sampleRate))
	s.hfCoef = float32(2.0 * math.Sin(math.Pi*highFreq/sampleRate))
	s.refresh()
	return s
}

// Update publishes new band gains for the next Process call.
func (s *Stage) Update(params Params) {
	s.box.Store(params)
}

func (s *Stage) refresh() {
	p := s.box.Load()
	if p == s.cached {
		return
	}
	s.cached = p
	s.gL = float32(audio.DbToLinear(p.LowDB))
	s.gM = float32(audio.DbToLinear(p.MidDB))
	s.gH = float32(audio.DbToLinear(p.HighDB))
}

// Process runs the cascaded splitter/recombiner over every channel of blk
// in place, growing per-channel state if blk carries more channels than
// the stage was created with.
func (s *Stage) Process(blk *audio.Block) error {
	s.refresh()
	if blk.Channels > len(s.state) {
		grown := make([]channelState, blk.Channels)
		copy(grown, s.state)
		s.state = grown
	}

	lfCoef, hfCoef := s.lfCoef, s.hfCoef
	gL, gM, gH := s.gL, s.gM, s.gH
	eps := float32(denormalEps)

	for c := 0; c < blk.Channels; c++ {
		st := &s.state[c]
		ch := blk.Channel(c)
		for i, x := range ch {
			st.lf[0] += lfCoef*(x-st.lf[0]) + eps
			st.lf[1] += lfCoef * (st.lf[0] - st.lf[1])
			st.lf[2] += lfCoef * (st.lf[1] - st.lf[2])
			st.lf[3] += lfCoef * (st.lf[2] - st.lf[3])
			L := st.lf[3]

			st.hf[0] += hfCoef*(x-st.hf[0]) + eps
			st.hf[1] += hfCoef * (st.hf[0] - st.hf[1])
			st.hf[2] += hfCoef * (st.hf[1] - st.hf[2])
			st.hf[3] += hfCoef * (st.hf[2] - st.hf[3])
			H := st.sd[2] - st.hf[3]
			M := st.sd[2] - (H + L)

			ch[i] = gL*L + gM*M + gH*H

			st.sd[2] = st.sd[1]
			st.sd[1] = st.sd[0]
			st.sd[0] = x
		}
	}
	return nil
}

// Reset zeros every channel's delay lines, preserving coefficients.
func (s *Stage) Reset() {
	for i := range s.state {
		s.state[i].reset()
	}
}

// Latency is a fixed 3 samples, reported in nanoseconds.
func (s *Stage) Latency() int64 {
	return int64(3.0 / s.sampleRate * 1e9)
}
