// Package chain implements the chain manager: a fixed-capacity indexed
// array of stage slots, dispatched in ascending order, with aggregate
// latency reporting and lock-free reconfiguration.
package chain

import (
	"github.com/rs/zerolog"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/dsp/noise"
)

// Config is the pipeline's immutable configuration.
type Config struct {
	SampleRate   float64
	Channels     int
	BufferSizeMs float64
	MaxSlots     int
}

// DefaultConfig returns the documented default: 48000 Hz, 2 channels,
// 10 ms buffer, 16 max slots.
func DefaultConfig() Config {
	return Config{SampleRate: 48000, Channels: 2, BufferSizeMs: 10, MaxSlots: 16}
}

type slotState int

const (
	slotEmpty slotState = iota
	slotOccupied
)

type slot struct {
	state   slotState
	kind    StageKind
	enabled bool
	stage   updatableStage
	latency int64
}

// Manager owns the fixed-capacity slot array and dispatches Process
// through enabled, occupied slots in ascending index order.
type Manager struct {
	cfg      Config
	slots    []slot
	logger   zerolog.Logger
	denoiser noise.Denoiser
	latency  int64
}

// NewManager creates a Manager for cfg. denoiser is optional and is
// handed to any NoiseSuppress/FrameDenoiser slot created later; a nil
// denoiser makes FrameDenoiser behave as pass-through.
func NewManager(cfg Config, logger zerolog.Logger, denoiser noise.Denoiser) *Manager {
	return &Manager{
		cfg:      cfg,
		slots:    make([]slot, cfg.MaxSlots),
		logger:   logger,
		denoiser: denoiser,
	}
}

// Process validates blk against the pipeline's configuration, then walks
// slots 0..MaxSlots-1 in order, calling each occupied, enabled stage's
// Process in place. On the first stage error, dispatch stops and that
// error is returned — blk may be partially modified (documented hazard).
func (m *Manager) Process(blk *audio.Block) error {
	if err := blk.Validate(m.cfg.Channels, m.cfg.SampleRate); err != nil {
		return newErr(UnsupportedFormat, -1, 0, err)
	}
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != slotOccupied || !s.enabled {
			continue
		}
		if err := s.stage.Process(blk); err != nil {
			return newErr(InvalidParams, i, s.kind, err)
		}
	}
	return nil
}

// UpdateSlot creates (if Empty), recreates (if Occupied with a different
// kind — destroy-then-create), or reparameterizes (if Occupied with the
// same kind) the slot at id. Succeeding recomputes aggregate latency;
// failing after a kind-change leaves the slot Empty — update is
// all-or-nothing, never a half-created slot.
func (m *Manager) UpdateSlot(id int, params Params, enabled bool) error {
	if id < 0 || id >= len(m.slots) {
		return newErr(FilterNotFound, id, params.Kind, nil)
	}
	if !params.Kind.valid() {
		return newErr(InvalidFilterType, id, params.Kind, nil)
	}

	s := &m.slots[id]
	if s.state == slotOccupied && s.kind != params.Kind {
		m.destroySlot(id)
	}

	if s.state == slotEmpty {
		stage, err := createStage(params.Kind, m.cfg.Channels, m.cfg.SampleRate, params, m.denoiser, m.logger)
		if err != nil {
			return err
		}
		s.stage = stage
		s.kind = params.Kind
		s.state = slotOccupied
		m.logger.Debug().Int("slot", id).Str("kind", params.Kind.String()).Msg("chain: slot created")
	} else {
		s.stage.applyUpdate(params)
	}

	s.enabled = enabled
	s.latency = s.stage.Latency()
	m.recomputeLatency()
	return nil
}

// RemoveSlot destroys the stage at id and returns it to Empty.
func (m *Manager) RemoveSlot(id int) error {
	if id < 0 || id >= len(m.slots) {
		return newErr(InvalidParams, id, 0, nil)
	}
	if m.slots[id].state != slotOccupied {
		return newErr(FilterNotFound, id, m.slots[id].kind, nil)
	}
	m.destroySlot(id)
	m.recomputeLatency()
	return nil
}

func (m *Manager) destroySlot(id int) {
	kind := m.slots[id].kind
	m.slots[id] = slot{}
	m.logger.Debug().Int("slot", id).Str("kind", kind.String()).Msg("chain: slot destroyed")
}

// Reset invokes every occupied slot's Reset, moving its DSP state to t=0
// without changing parameters.
func (m *Manager) Reset() {
	for i := range m.slots {
		if m.slots[i].state == slotOccupied {
			m.slots[i].stage.Reset()
		}
	}
}

// LatencyNS returns the sum of reported_latency_ns across occupied,
// enabled slots.
func (m *Manager) LatencyNS() int64 {
	return m.latency
}

func (m *Manager) recomputeLatency() {
	var total int64
	for i := range m.slots {
		if m.slots[i].state == slotOccupied && m.slots[i].enabled {
			total += m.slots[i].latency
		}
	}
	m.latency = total
}
