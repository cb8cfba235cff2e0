// Package adpcm implements the IMA ADPCM codec used by the sensor firmware.
// Samples are 16-bit signed PCM; encoded data packs two 4-bit deltas per byte,
// high nibble first. The encoder and decoder keep no header or block state, so
// a stream must always be decoded from the beginning.
package adpcm

// stepTable is the IMA ADPCM quantizer step size table.
var stepTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

// indexTable maps a 4-bit delta to the step index adjustment.
var indexTable = [16]int{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

// Encode compresses 16-bit PCM samples into IMA ADPCM bytes.
func Encode(pcm []int16) []byte {
	index := 0
	valprev := 0
	step := stepTable[index]

	out := make([]byte, 0, (len(pcm)+1)/2)
	toggle := false
	var currentByte byte

	for _, s := range pcm {
		sample := int(s)

		diff := sample - valprev
		sign := 0
		if diff < 0 {
			sign = 8
			diff = -diff
		}

		delta := 0
		tempstep := step

		if diff >= tempstep {
			delta |= 4
			diff -= tempstep
		}
		tempstep >>= 1
		if diff >= tempstep {
			delta |= 2
			diff -= tempstep
		}
		tempstep >>= 1
		if diff >= tempstep {
			delta |= 1
		}

		delta |= sign

		// Update predicted value
		vpdiff := step >> 3
		if delta&4 != 0 {
			vpdiff += step
		}
		if delta&2 != 0 {
			vpdiff += step >> 1
		}
		if delta&1 != 0 {
			vpdiff += step >> 2
		}

		if sign != 0 {
			valprev -= vpdiff
		} else {
			valprev += vpdiff
		}

		valprev = clamp16(valprev)

		// Update step index
		index += indexTable[delta&0x0F]
		if index < 0 {
			index = 0
		}
		if index > 88 {
			index = 88
		}
		step = stepTable[index]

		// Pack 2 nibbles per byte
		if toggle {
			currentByte |= byte(delta & 0x0F)
			out = append(out, currentByte)
			toggle = false
		} else {
			currentByte = byte(delta<<4) & 0xF0
			toggle = true
		}
	}

	if toggle {
		// Dangling high nibble
		out = append(out, currentByte)
	}

	return out
}

// Decode expands IMA ADPCM bytes into 16-bit PCM samples. Every input byte
// yields two samples, high nibble first.
func Decode(data []byte) []int16 {
	pcm := make([]int16, 0, len(data)*2)

	index := 0
	valprev := 0
	step := stepTable[index]

	for _, b := range data {
		for shift := 4; shift >= 0; shift -= 4 {
			delta := int(b>>shift) & 0x0F

			sign := delta & 8
			delta &= 7

			vpdiff := step >> 3
			if delta&4 != 0 {
				vpdiff += step
			}
			if delta&2 != 0 {
				vpdiff += step >> 1
			}
			if delta&1 != 0 {
				vpdiff += step >> 2
			}

			if sign != 0 {
				valprev -= vpdiff
			} else {
				valprev += vpdiff
			}

			valprev = clamp16(valprev)

			index += indexTable[delta|sign]
			if index < 0 {
				index = 0
			}
			if index > 88 {
				index = 88
			}
			step = stepTable[index]

			pcm = append(pcm, int16(valprev))
		}
	}

	return pcm
}

// MaximizeVolume scales PCM so its peak reaches full scale minus headroom.
// Silence is returned unchanged.
func MaximizeVolume(pcm []int16, headroom float64) []int16 {
	if len(pcm) == 0 {
		return pcm
	}

	maxAbs := 0
	for _, v := range pcm {
		abs := int(v)
		if abs < 0 {
			abs = -abs
		}
		if abs > maxAbs {
			maxAbs = abs
		}
	}

	if maxAbs == 0 {
		return pcm
	}

	scale := (1.0 - headroom) * 32767.0 / float64(maxAbs)

	out := make([]int16, len(pcm))
	for i, v := range pcm {
		scaled := int(float64(v)*scale + 0.5)
		if float64(v)*scale < 0 {
			scaled = int(float64(v)*scale - 0.5)
		}
		out[i] = int16(clamp16(scaled))
	}

	return out
}

// BytesToSamples converts little-endian 16-bit PCM bytes to samples.
// A trailing odd byte is dropped.
func BytesToSamples(data []byte) []int16 {
	n := len(data) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
	}
	return samples
}

// SamplesToBytes converts samples to little-endian 16-bit PCM bytes.
func SamplesToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[2*i] = byte(uint16(s))
		out[2*i+1] = byte(uint16(s) >> 8)
	}
	return out
}

func clamp16(v int) int {
	if v < -32768 {
		return -32768
	}
	if v > 32767 {
		return 32767
	}
	return v
}
