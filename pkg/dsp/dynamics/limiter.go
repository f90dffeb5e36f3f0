package dynamics

import (
	"math"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// LimiterParams are the brick-wall limiter's parameters: only threshold
// and release — no lookahead/true-peak knobs, since this stage is
// deliberately lookahead-free.
type LimiterParams struct {
	ThresholdDB float64
	ReleaseMs   float64
}

// DefaultLimiterParams returns the documented default: threshold -6 dB,
// release 60 ms.
func DefaultLimiterParams() LimiterParams {
	return LimiterParams{ThresholdDB: -6, ReleaseMs: 60}
}

type limiterChannelState struct {
	envelope float64
}

// Limiter is a peak envelope follower driving an effectively-infinite-
// ratio gain reduction above threshold, with instant attack and a
// release-time-only ballistic — no lookahead, no true-peak oversampling.
type Limiter struct {
	sampleRate   float64
	box          *paramstore.Box[LimiterParams]
	cached       *LimiterParams
	releaseCoeff float64
	state        []limiterChannelState
}

// NewLimiter creates a Limiter sized for channels channels.
func NewLimiter(channels int, sampleRate float64, params LimiterParams) *Limiter {
	l := &Limiter{sampleRate: sampleRate, box: paramstore.NewBox(params), state: make([]limiterChannelState, channels)}
	l.refresh()
	return l
}

// Update publishes new parameters for the next Process call.
func (l *Limiter) Update(params LimiterParams) {
	l.box.Store(params)
}

func (l *Limiter) refresh() {
	p := l.box.Load()
	if p == l.cached {
		return
	}
	l.cached = p
	l.releaseCoeff = math.Exp(-1.0 / (l.sampleRate * p.ReleaseMs / 1000.0))
}

// Process applies instant-attack, release-time-release brick-wall gain
// reduction over every channel of blk in place.
func (l *Limiter) Process(blk *audio.Block) error {
	l.refresh()
	if blk.Channels > len(l.state) {
		grown := make([]limiterChannelState, blk.Channels)
		copy(grown, l.state)
		l.state = grown
	}

	threshold := l.cached.ThresholdDB
	r := l.releaseCoeff

	for c := 0; c < blk.Channels; c++ {
		st := &l.state[c]
		x := blk.Channel(c)
		for i := 0; i < blk.Frames; i++ {
			abs := math.Abs(float64(x[i]))
			if abs > st.envelope {
				st.envelope = abs // instant attack
			} else {
				st.envelope = abs + r*(st.envelope-abs)
			}

			envDB := audio.LinearToDb(st.envelope)
			reductionDB := 0.0
			if envDB > threshold {
				reductionDB = envDB - threshold
			}
			g := audio.DbToLinear(-reductionDB)
			x[i] = float32(float64(x[i]) * g)
		}
	}
	return nil
}

// Reset zeros every channel's envelope.
func (l *Limiter) Reset() {
	for i := range l.state {
		l.state[i] = limiterChannelState{}
	}
}

// Latency is zero: no lookahead.
func (l *Limiter) Latency() int64 { return 0 }
