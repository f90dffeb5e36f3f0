// Package gain implements the chain's trivial scalar gain stage.
package gain

import (
	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// Params is the Gain stage's single parameter: gain_db in [-30, +30].
type Params struct {
	GainDB float64
}

// DefaultParams returns the chain's documented default: 0 dB.
func DefaultParams() Params {
	return Params{GainDB: 0}
}

// Stage multiplies every sample of every channel by a cached linear
// multiplier derived from GainDB. It carries no state across blocks, so
// Reset is a no-op.
type Stage struct {
	box     *paramstore.Box[Params]
	cached  *Params
	linear  float32
}

// New creates a Gain stage with the given initial parameters.
func New(params Params) *Stage {
	s := &Stage{box: paramstore.NewBox(params)}
	s.refresh()
	return s
}

// Update publishes new parameters for the next Process call to pick up.
func (s *Stage) Update(params Params) {
	s.box.Store(params)
}

func (s *Stage) refresh() {
	p := s.box.Load()
	if p == s.cached {
		return
	}
	s.cached = p
	s.linear = float32(audio.DbToLinear(p.GainDB))
}

// Process multiplies every channel of blk in place by the cached linear
// gain.
func (s *Stage) Process(blk *audio.Block) error {
	s.refresh()
	g := s.linear
	for c := 0; c < blk.Channels; c++ {
		ch := blk.Channel(c)
		for i := range ch {
			ch[i] *= g
		}
	}
	return nil
}

// Reset is a no-op: Gain carries no state across blocks.
func (s *Stage) Reset() {}

// Latency is always zero: Gain is a pure per-sample multiply.
func (s *Stage) Latency() int64 { return 0 }
