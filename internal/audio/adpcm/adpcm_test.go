package adpcm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(n int, freq float64, rate int) []int16 {
	pcm := make([]int16, n)
	for i := range pcm {
		pcm[i] = int16(10000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return pcm
}

func TestEncodeLength(t *testing.T) {
	t.Run("even sample count", func(t *testing.T) {
		out := Encode(make([]int16, 100))
		assert.Len(t, out, 50)
	})

	t.Run("odd sample count packs dangling nibble", func(t *testing.T) {
		out := Encode(make([]int16, 101))
		assert.Len(t, out, 51)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Encode(nil))
	})
}

func TestDecodeLength(t *testing.T) {
	out := Decode(make([]byte, 64))
	assert.Len(t, out, 128)
}

func TestRoundTripApproximatesInput(t *testing.T) {
	pcm := sineWave(2048, 440, 8000)

	decoded := Decode(Encode(pcm))
	require.Len(t, decoded, len(pcm))

	// ADPCM is lossy; after the adaptation settles, the error should stay
	// well under the quantizer's coarse early steps.
	var sumErr float64
	for i := 256; i < len(pcm); i++ {
		sumErr += math.Abs(float64(pcm[i]) - float64(decoded[i]))
	}
	meanErr := sumErr / float64(len(pcm)-256)
	assert.Less(t, meanErr, 500.0, "mean reconstruction error too large")
}

func TestMaximizeVolume(t *testing.T) {
	t.Run("scales peak to full range", func(t *testing.T) {
		pcm := []int16{100, -200, 50}
		out := MaximizeVolume(pcm, 0.002)

		peak := int16(0)
		for _, v := range out {
			if v > peak {
				peak = v
			}
			if -v > peak {
				peak = -v
			}
		}
		assert.InDelta(t, (1.0-0.002)*32767.0, float64(peak), 2.0)
	})

	t.Run("silence unchanged", func(t *testing.T) {
		pcm := []int16{0, 0, 0}
		assert.Equal(t, pcm, MaximizeVolume(pcm, 0.002))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, MaximizeVolume(nil, 0.002))
	})
}

func TestSampleByteConversion(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768}

	data := SamplesToBytes(samples)
	assert.Len(t, data, 10)

	back := BytesToSamples(data)
	assert.Equal(t, samples, back)
}

func TestBytesToSamplesDropsTrailingByte(t *testing.T) {
	out := BytesToSamples([]byte{0x01, 0x02, 0x03})
	assert.Len(t, out, 1)
}
