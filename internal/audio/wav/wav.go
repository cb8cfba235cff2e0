// Package wav reads and writes minimal RIFF/WAVE containers for mono 16-bit
// PCM audio. Only canonical PCM files are supported; compressed formats and
// multi-channel audio are rejected.
package wav

import (
	"bytes"
	"encoding/binary"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// headerSize is the size of a canonical PCM WAV header.
const headerSize = 44

// FromPCM wraps raw little-endian 16-bit mono PCM bytes in a 44-byte
// RIFF/WAVE header at the given sample rate.
func FromPCM(pcm []byte, sampleRate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(pcm)

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+dataSize))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes()
}

// Info describes the format of a parsed WAV file.
type Info struct {
	SampleRate    int
	NumChannels   int
	BitsPerSample int
}

// ExtractPCM parses a WAV container and returns the raw PCM payload of the
// data chunk together with format information. Chunks other than fmt and
// data are skipped.
func ExtractPCM(data []byte) ([]byte, Info, error) {
	var info Info

	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, info, apperrors.Wrap(apperrors.ErrInvalidInput, "not a RIFF/WAVE file")
	}

	var pcm []byte
	haveFmt := false
	haveData := false

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, info, apperrors.Wrap(apperrors.ErrInvalidInput, "fmt chunk too short")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, info, apperrors.Wrapf(
					apperrors.ErrInvalidInput, "unsupported audio format %d", format)
			}
			info.NumChannels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
			haveData = true
		}

		// Chunks are word-aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || !haveData {
		return nil, info, apperrors.Wrap(apperrors.ErrInvalidInput, "missing fmt or data chunk")
	}

	return pcm, info, nil
}
