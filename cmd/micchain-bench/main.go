// Command micchain-bench is a diagnostic CLI that builds a pipeline from
// flags, feeds it a generated tone or silence, and prints before/after
// RMS and peak levels. It is not a host integration — live microphone
// capture is out of scope — just a bench tool for exercising the chain
// end to end.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hamic/micpipeline/pkg/audio"
	"github.com/hamic/micpipeline/pkg/pipeline"
)

var (
	flagSampleRate int
	flagChannels   int
	flagFrames     int
	flagToneFreq   float64
	flagToneAmp    float64
	flagSilence    bool
	flagGainDB     float64
	flagCompressor bool
	flagEqLowDB    float64
	flagEqMidDB    float64
	flagEqHighDB   float64
	flagVerbose    bool
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "micchain-bench",
		Short: "Feed a generated signal through a microphone DSP chain and report levels",
		Long: `micchain-bench builds a pipeline from the requested stages, feeds it a
generated sine tone (or silence), and prints the RMS and peak level of
channel 0 before and after processing, along with the pipeline's reported
latency.`,
		RunE: runBench,
	}

	cmd.Flags().IntVar(&flagSampleRate, "sample-rate", 48000, "sample rate in Hz")
	cmd.Flags().IntVar(&flagChannels, "channels", 2, "channel count")
	cmd.Flags().IntVar(&flagFrames, "frames", 480, "frames per block")
	cmd.Flags().Float64Var(&flagToneFreq, "tone-freq", 1000, "test tone frequency in Hz")
	cmd.Flags().Float64Var(&flagToneAmp, "tone-amp", 0.25, "test tone amplitude (0-1)")
	cmd.Flags().BoolVar(&flagSilence, "silence", false, "feed silence instead of a tone")
	cmd.Flags().Float64Var(&flagGainDB, "gain-db", math.NaN(), "enable a Gain stage at this dB (unset = disabled)")
	cmd.Flags().BoolVar(&flagCompressor, "compressor", false, "enable a Compressor stage with default parameters")
	cmd.Flags().Float64Var(&flagEqLowDB, "eq-low-db", math.NaN(), "enable a 3-band EQ with this low-band gain (unset = disabled)")
	cmd.Flags().Float64Var(&flagEqMidDB, "eq-mid-db", 0, "EQ mid-band gain, used when --eq-low-db is set")
	cmd.Flags().Float64Var(&flagEqHighDB, "eq-high-db", 0, "EQ high-band gain, used when --eq-low-db is set")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "log slot lifecycle events")

	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	logger := zerolog.Nop()
	if flagVerbose {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	cfg := pipeline.DefaultConfig()
	cfg.SampleRate = float64(flagSampleRate)
	cfg.Channels = flagChannels

	p := pipeline.Create(cfg, logger, nil)
	slot := 0

	if !math.IsNaN(flagGainDB) {
		params, _ := pipeline.DefaultFilterParams(pipeline.KindGain)
		params.Gain.GainDB = flagGainDB
		if err := p.UpdateSlot(slot, params, true); err != nil {
			return fmt.Errorf("configuring gain stage: %w", err)
		}
		slot++
	}
	if flagCompressor {
		params, _ := pipeline.DefaultFilterParams(pipeline.KindCompressor)
		if err := p.UpdateSlot(slot, params, true); err != nil {
			return fmt.Errorf("configuring compressor stage: %w", err)
		}
		slot++
	}
	if !math.IsNaN(flagEqLowDB) {
		params, _ := pipeline.DefaultFilterParams(pipeline.KindEqualizer3)
		params.Equalizer3.LowDB = flagEqLowDB
		params.Equalizer3.MidDB = flagEqMidDB
		params.Equalizer3.HighDB = flagEqHighDB
		if err := p.UpdateSlot(slot, params, true); err != nil {
			return fmt.Errorf("configuring EQ stage: %w", err)
		}
		slot++
	}

	blk := generateBlock(flagFrames, flagChannels, float64(flagSampleRate), flagToneFreq, flagToneAmp, flagSilence)

	beforeRMS := audio.RMS(blk.Channel(0))
	beforePeak := audio.Peak(blk.Channel(0))

	if err := p.Process(blk); err != nil {
		return fmt.Errorf("processing block: %w", err)
	}

	afterRMS := audio.RMS(blk.Channel(0))
	afterPeak := audio.Peak(blk.Channel(0))

	fmt.Printf("frames=%d channels=%d sample_rate=%d\n", flagFrames, flagChannels, flagSampleRate)
	fmt.Printf("before: rms=%.6f (%.2f dB) peak=%.6f (%.2f dB)\n",
		beforeRMS, audio.LinearToDb(float64(beforeRMS)), beforePeak, audio.LinearToDb(float64(beforePeak)))
	fmt.Printf("after:  rms=%.6f (%.2f dB) peak=%.6f (%.2f dB)\n",
		afterRMS, audio.LinearToDb(float64(afterRMS)), afterPeak, audio.LinearToDb(float64(afterPeak)))
	fmt.Printf("latency: %d ns\n", p.Latency())

	p.Destroy()
	return nil
}

func generateBlock(frames, channels int, sr, freq, amp float64, silence bool) *audio.Block {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		if silence {
			continue
		}
		for i := range data[c] {
			data[c][i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/sr))
		}
	}
	return &audio.Block{Data: data, Frames: frames, Channels: channels, SampleRate: sr}
}
