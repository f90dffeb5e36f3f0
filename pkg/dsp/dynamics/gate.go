package dynamics

import (
	"math"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// NoiseGateParams are the hysteresis noise gate's parameters: a standard
// open/close gate with a hold timer.
type NoiseGateParams struct {
	OpenDB    float64
	CloseDB   float64
	AttackMs  float64
	HoldMs    float64
	ReleaseMs float64
}

// DefaultNoiseGateParams returns the documented default: open -26 dB,
// close -32 dB, attack 25 ms, hold 200 ms, release 150 ms.
func DefaultNoiseGateParams() NoiseGateParams {
	return NoiseGateParams{OpenDB: -26, CloseDB: -32, AttackMs: 25, HoldMs: 200, ReleaseMs: 150}
}

type gateState int

const (
	gateClosed gateState = iota
	gateAttack
	gateOpen
	gateHold
	gateRelease
)

type gateChannelState struct {
	state       gateState
	currentGain float64
	targetGain  float64
	holdCounter int
}

// NoiseGate is a per-channel hard-close gate with attack/hold/release
// ballistics driven off each sample's instantaneous level in dB; there is
// no envelope follower, knee or logarithmic detector — those knobs aren't
// part of this gate's parameter set.
type NoiseGate struct {
	sampleRate float64

	box    *paramstore.Box[NoiseGateParams]
	cached *NoiseGateParams

	attackCoeff  float64
	releaseCoeff float64
	holdSamples  int

	state []gateChannelState
}

// NewNoiseGate creates a NoiseGate sized for channels channels.
func NewNoiseGate(channels int, sampleRate float64, params NoiseGateParams) *NoiseGate {
	g := &NoiseGate{sampleRate: sampleRate, box: paramstore.NewBox(params), state: make([]gateChannelState, channels)}
	g.refresh()
	return g
}

// Update publishes new parameters for the next Process call.
func (g *NoiseGate) Update(params NoiseGateParams) {
	g.box.Store(params)
}

func (g *NoiseGate) refresh() {
	p := g.box.Load()
	if p == g.cached {
		return
	}
	g.cached = p
	g.attackCoeff = math.Exp(-1.0 / (g.sampleRate * p.AttackMs / 1000.0))
	g.releaseCoeff = math.Exp(-1.0 / (g.sampleRate * p.ReleaseMs / 1000.0))
	g.holdSamples = int(p.HoldMs / 1000.0 * g.sampleRate)
}

// Process runs the open/hold/release state machine over every channel of
// blk in place.
func (g *NoiseGate) Process(blk *audio.Block) error {
	g.refresh()
	if blk.Channels > len(g.state) {
		grown := make([]gateChannelState, blk.Channels)
		copy(grown, g.state)
		g.state = grown
	}

	open, closeDB := g.cached.OpenDB, g.cached.CloseDB

	for c := 0; c < blk.Channels; c++ {
		st := &g.state[c]
		x := blk.Channel(c)

		for i := 0; i < blk.Frames; i++ {
			abs := math.Abs(float64(x[i]))
			inputDB := -200.0
			if abs > 0 {
				inputDB = audio.LinearToDb(abs)
			}

			switch st.state {
			case gateClosed:
				if inputDB > open {
					st.state = gateAttack
					st.targetGain = 1.0
				}
			case gateAttack:
				if st.currentGain >= 0.99 {
					st.state = gateOpen
				} else if inputDB < closeDB {
					st.state = gateRelease
					st.targetGain = 0
				}
			case gateOpen:
				if inputDB < closeDB {
					st.state = gateHold
					st.holdCounter = g.holdSamples
				}
			case gateHold:
				if inputDB > closeDB {
					st.state = gateOpen
				} else if st.holdCounter > 0 {
					st.holdCounter--
				} else {
					st.state = gateRelease
					st.targetGain = 0
				}
			case gateRelease:
				if inputDB > open {
					st.state = gateAttack
					st.targetGain = 1.0
				} else if st.currentGain <= 0.01 {
					st.state = gateClosed
					st.currentGain = 0
				}
			}

			if st.currentGain < st.targetGain {
				st.currentGain = st.targetGain + (st.currentGain-st.targetGain)*g.attackCoeff
			} else if st.currentGain > st.targetGain {
				st.currentGain = st.targetGain + (st.currentGain-st.targetGain)*g.releaseCoeff
			}

			x[i] = float32(float64(x[i]) * st.currentGain)
		}
	}
	return nil
}

// Reset closes every channel's gate and clears hold/gain state.
func (g *NoiseGate) Reset() {
	for i := range g.state {
		g.state[i] = gateChannelState{}
	}
}

// Latency is zero.
func (g *NoiseGate) Latency() int64 { return 0 }
