// Package pipeline is the public facade over pkg/chain, mirroring
// obs_pipeline.h's create/process/update_filter/remove_filter/reset/
// get_latency/get_default_config/get_default_filter_params/
// is_filter_supported/get_filter_name API surface as idiomatic Go
// methods instead of a C handle-and-struct-pointer ABI.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/chain"
	"github.com/hamic/micpipeline/pkg/dsp/noise"
)

// Config is the pipeline's creation-time configuration. It re-exports
// chain.Config verbatim: the facade adds no fields of its own.
// Configuration stays a plain Go struct with no file/env loading —
// that's deliberately out of scope for this package.
type Config = chain.Config

// DefaultConfig returns the documented default configuration (48000 Hz,
// 2 channels, 10 ms buffer, 16 max slots).
func DefaultConfig() Config {
	return chain.DefaultConfig()
}

// Kind identifies a stage's DSP algorithm.
type Kind = chain.StageKind

// Re-exported stage kinds, matching obs_filter_type_t's enumerators.
const (
	KindGain             = chain.KindGain
	KindNoiseSuppress    = chain.KindNoiseSuppress
	KindNoiseGate        = chain.KindNoiseGate
	KindCompressor       = chain.KindCompressor
	KindLimiter          = chain.KindLimiter
	KindExpander         = chain.KindExpander
	KindUpwardCompressor = chain.KindUpwardCompressor
	KindEqualizer3       = chain.KindEqualizer3
	KindInvertPolarity   = chain.KindInvertPolarity
)

// Params is the discriminated union of every stage kind's parameters.
type Params = chain.Params

// Code is the pipeline's error taxonomy, mirroring obs_pipeline_result_t.
type Code = chain.Code

// Re-exported result codes.
const (
	InvalidParams        = chain.InvalidParams
	OutOfMemory          = chain.OutOfMemory
	FilterNotFound       = chain.FilterNotFound
	UnsupportedFormat    = chain.UnsupportedFormat
	InitializationFailed = chain.InitializationFailed
	InvalidFilterType    = chain.InvalidFilterType
	LibraryNotAvailable  = chain.LibraryNotAvailable
)

// Pipeline is a created, runnable chain instance. The zero value is not
// usable; construct with Create.
type Pipeline struct {
	mgr *chain.Manager
}

// Create builds a Pipeline for cfg, mirroring obs_pipeline_create. denoiser
// is optional (nil is valid) and is handed to any NoiseSuppress/
// FrameDenoiser slot created later. logger receives slot lifecycle and
// diagnostic messages; a zerolog.Nop() logger silences them.
func Create(cfg Config, logger zerolog.Logger, denoiser noise.Denoiser) *Pipeline {
	return &Pipeline{mgr: chain.NewManager(cfg, logger, denoiser)}
}

// Destroy releases the pipeline's stages. Unlike the C original's
// obs_pipeline_destroy, there is no explicit free in Go; Destroy exists so
// callers that hold the facade's handle-shaped API have a symmetric
// teardown point, and it drops the Manager reference so a reused Pipeline
// value fails loudly rather than silently operating on stale state.
func (p *Pipeline) Destroy() {
	p.mgr = nil
}

// Process runs audio in place through every enabled slot in ascending
// index order, mirroring obs_pipeline_process. On the first stage error,
// dispatch stops and that error (a *chain.PipelineError) is returned.
func (p *Pipeline) Process(blk *audio.Block) error {
	return p.mgr.Process(blk)
}

// UpdateSlot creates, recreates, or reparameterizes the slot at id,
// mirroring obs_pipeline_update_filter.
func (p *Pipeline) UpdateSlot(id int, params Params, enabled bool) error {
	return p.mgr.UpdateSlot(id, params, enabled)
}

// RemoveSlot empties the slot at id, mirroring obs_pipeline_remove_filter.
func (p *Pipeline) RemoveSlot(id int) error {
	return p.mgr.RemoveSlot(id)
}

// Reset moves every occupied slot's DSP state to t=0 without changing
// parameters, mirroring obs_pipeline_reset.
func (p *Pipeline) Reset() {
	p.mgr.Reset()
}

// Latency returns the pipeline's aggregate reported latency in
// nanoseconds, mirroring obs_pipeline_get_latency.
func (p *Pipeline) Latency() int64 {
	return p.mgr.LatencyNS()
}

// DefaultFilterParams returns kind's documented default parameters,
// mirroring obs_pipeline_get_default_filter_params. The bool return is
// false for an out-of-range kind.
func DefaultFilterParams(kind Kind) (Params, bool) {
	return chain.DefaultParams(kind)
}

// IsFilterSupported reports whether kind can be created in this build,
// mirroring obs_pipeline_is_filter_supported.
func IsFilterSupported(kind Kind) bool {
	return chain.IsFilterSupported(kind)
}

// FilterName returns kind's static display name, mirroring
// obs_pipeline_get_filter_name.
func FilterName(kind Kind) string {
	return chain.FilterName(kind)
}
