package chain

// StageKind identifies which DSP algorithm a slot runs.
type StageKind int

const (
	KindGain StageKind = iota
	KindNoiseSuppress
	KindNoiseGate
	KindCompressor
	KindLimiter
	KindExpander
	KindUpwardCompressor
	KindEqualizer3
	KindInvertPolarity

	kindCount
)

// String returns the stage's static display name, also used by
// FilterName.
func (k StageKind) String() string {
	switch k {
	case KindGain:
		return "Gain"
	case KindNoiseSuppress:
		return "NoiseSuppress"
	case KindNoiseGate:
		return "NoiseGate"
	case KindCompressor:
		return "Compressor"
	case KindLimiter:
		return "Limiter"
	case KindExpander:
		return "Expander"
	case KindUpwardCompressor:
		return "UpwardCompressor"
	case KindEqualizer3:
		return "Equalizer3"
	case KindInvertPolarity:
		return "InvertPolarity"
	default:
		return "Unknown"
	}
}

// valid reports whether k is one of the defined StageKind values.
func (k StageKind) valid() bool {
	return k >= KindGain && k < kindCount
}

// frameDenoiserEnabled models a build-time feature flag: it gates
// IsFilterSupported for NoiseSuppress. A build that cannot link an
// external denoiser would flip this to false, which also makes UpdateSlot
// fail with LibraryNotAvailable for a NoiseSuppress slot using the
// FrameDenoiser method.
const frameDenoiserEnabled = true
