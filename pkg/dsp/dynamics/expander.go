package dynamics

import (
	"math"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/paramstore"
)

// Detector selects the Expander's envelope detector.
type Detector int

const (
	DetectorRMS Detector = iota
	DetectorPeak
)

// Preset names an "Expander" or "Gate" voicing. It is carried in
// ExpanderParams but Process does not read it, and DefaultExpanderParams
// does not depend on it: both presets run the same algorithm below.
type Preset int

const (
	PresetExpander Preset = iota
	PresetGate
)

// ExpanderParams are the downward expander/gate's parameters.
type ExpanderParams struct {
	Ratio        float64
	ThresholdDB  float64
	AttackMs     float64
	ReleaseMs    float64
	OutputGainDB float64
	KneeWidth    float64 // informational; hard knee is applied
	DetectorType Detector
	PresetType   Preset
}

// DefaultExpanderParams returns the documented default: ratio 2,
// threshold -30 dB, attack 10 ms, release 50 ms, out 0 dB, knee 1.0,
// RMS detector, Expander preset.
func DefaultExpanderParams() ExpanderParams {
	return ExpanderParams{
		Ratio: 2, ThresholdDB: -30, AttackMs: 10, ReleaseMs: 50,
		OutputGainDB: 0, KneeWidth: 1.0, DetectorType: DetectorRMS, PresetType: PresetExpander,
	}
}

type expanderCoeffs struct {
	a       float64
	r       float64
	slope   float64
	rmsCoef float64
	outG    float64
}

type expanderChannelState struct {
	runave     float64
	gainDBState float64
}

// Expander is the per-channel downward expander/gate: an RMS or peak
// envelope followed by ballistic gain smoothing, attenuating below
// threshold and passing 0 dB gain above it.
type Expander struct {
	sampleRate float64

	box    *paramstore.Box[ExpanderParams]
	cached *ExpanderParams
	coef   expanderCoeffs

	state []expanderChannelState
	envIn []float32
}

// NewExpander creates an Expander sized for channels channels.
func NewExpander(channels int, sampleRate float64, params ExpanderParams) *Expander {
	e := &Expander{sampleRate: sampleRate, box: paramstore.NewBox(params), state: make([]expanderChannelState, channels)}
	e.refresh()
	return e
}

// Update publishes new parameters for the next Process call.
func (e *Expander) Update(params ExpanderParams) {
	e.box.Store(params)
}

func (e *Expander) refresh() {
	p := e.box.Load()
	if p == e.cached {
		return
	}
	e.cached = p
	e.coef = expanderCoeffs{
		a:       math.Exp(-1.0 / (e.sampleRate * p.AttackMs / 1000.0)),
		r:       math.Exp(-1.0 / (e.sampleRate * p.ReleaseMs / 1000.0)),
		slope:   1.0 - p.Ratio,
		rmsCoef: math.Pow(2.0, -100.0/e.sampleRate),
		outG:    audio.DbToLinear(p.OutputGainDB),
	}
}

// Process runs the envelope/gain/apply passes over every channel of blk
// in place, growing per-channel state if blk carries more channels than
// the stage was created with.
func (e *Expander) Process(blk *audio.Block) error {
	e.refresh()
	if blk.Channels > len(e.state) {
		grown := make([]expanderChannelState, blk.Channels)
		copy(grown, e.state)
		e.state = grown
	}
	if cap(e.envIn) < blk.Frames {
		e.envIn = make([]float32, blk.Frames)
	}
	envIn := e.envIn[:blk.Frames]

	threshold := e.cached.ThresholdDB
	slope := e.coef.slope
	a, r, rmsCoef, outG := e.coef.a, e.coef.r, e.coef.rmsCoef, e.coef.outG
	peak := e.cached.DetectorType == DetectorPeak

	for c := 0; c < blk.Channels; c++ {
		st := &e.state[c]
		x := blk.Channel(c)

		if peak {
			for i, s := range x {
				envIn[i] = float32(math.Abs(float64(s)))
			}
		} else {
			runave := st.runave
			for i, s := range x {
				runave = rmsCoef*runave + (1-rmsCoef)*float64(s)*float64(s)
				if runave < 0 {
					runave = 0
				}
				envIn[i] = float32(math.Sqrt(runave))
			}
			st.runave = runave
		}

		prev := st.gainDBState
		for i := 0; i < blk.Frames; i++ {
			envDB := audio.LinearToDb(float64(envIn[i]))
			if envDB < -120 {
				envDB = -120
			}
			diff := threshold - envDB
			var target float64
			if diff > 0 {
				target = slope * diff
				if target < -60 {
					target = -60
				}
			} else {
				target = 0
			}

			if target > prev {
				prev = a*prev + (1-a)*target
			} else {
				prev = r*prev + (1-r)*target
			}

			gainDB := prev
			if gainDB > 0 {
				gainDB = 0
			}
			g := audio.DbToLinear(gainDB) * outG
			x[i] = float32(float64(x[i]) * g)
		}
		st.gainDBState = prev
	}
	return nil
}

// Reset zeros every channel's running average and gain state.
func (e *Expander) Reset() {
	for i := range e.state {
		e.state[i] = expanderChannelState{}
	}
}

// Latency is zero: Expander has no lookahead.
func (e *Expander) Latency() int64 { return 0 }
