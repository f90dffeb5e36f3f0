package dynamics

import "github.com/hamic/micpipeline/pkg/audio"

// InvertPolarity negates every sample. It carries no parameters and no
// state; enabled by default in the chain's documented defaults.
type InvertPolarity struct{}

// NewInvertPolarity creates an InvertPolarity stage.
func NewInvertPolarity() *InvertPolarity {
	return &InvertPolarity{}
}

// Process negates every sample of every channel in blk in place.
func (InvertPolarity) Process(blk *audio.Block) error {
	for c := 0; c < blk.Channels; c++ {
		ch := blk.Channel(c)
		for i := range ch {
			ch[i] = -ch[i]
		}
	}
	return nil
}

// Reset is a no-op: InvertPolarity carries no state.
func (InvertPolarity) Reset() {}

// Latency is always zero.
func (InvertPolarity) Latency() int64 { return 0 }
