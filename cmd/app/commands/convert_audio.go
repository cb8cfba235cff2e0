package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/digital-codes/platansense/internal/audio/adpcm"
	"github.com/digital-codes/platansense/internal/audio/wav"
)

// maximizeHeadroom is the fraction of full scale left unused when
// normalizing, a small clipping margin.
const maximizeHeadroom = 0.002

// ConvertAudioOptions holds the parameters for the convert-audio command.
type ConvertAudioOptions struct {
	Input      string
	Output     string
	SampleRate int
	Maximize   bool
}

// RunConvertAudio converts between WAV (mono 16-bit PCM) and the sensor's
// IMA ADPCM format. The direction is inferred from the input file extension:
// .wav input produces ADPCM output, anything else is treated as ADPCM and
// produces WAV output.
func RunConvertAudio(opts ConvertAudioOptions) error {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var out []byte
	switch strings.ToLower(filepath.Ext(opts.Input)) {
	case ".wav":
		out, err = wavToADPCM(data, opts.Maximize)
	default:
		out, err = adpcmToWAV(data, opts.SampleRate, opts.Maximize)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func wavToADPCM(data []byte, maximize bool) ([]byte, error) {
	pcm, info, err := wav.ExtractPCM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse WAV input: %w", err)
	}
	if info.NumChannels != 1 || info.BitsPerSample != 16 {
		return nil, fmt.Errorf(
			"unsupported WAV format: %d channels, %d bits per sample",
			info.NumChannels, info.BitsPerSample)
	}

	samples := adpcm.BytesToSamples(pcm)
	if maximize {
		samples = adpcm.MaximizeVolume(samples, maximizeHeadroom)
	}
	return adpcm.Encode(samples), nil
}

func adpcmToWAV(data []byte, sampleRate int, maximize bool) ([]byte, error) {
	samples := adpcm.Decode(data)
	if maximize {
		samples = adpcm.MaximizeVolume(samples, maximizeHeadroom)
	}
	return wav.FromPCM(adpcm.SamplesToBytes(samples), sampleRate), nil
}
