// Package registry provides the static device registry. The registry is an
// immutable snapshot loaded once at process start and injected into the
// components that need it; devices cannot be added or changed at runtime.
package registry

import (
	"encoding/hex"
	"encoding/json"
	"os"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

// Device represents a registered sensor device and its pre-shared key.
type Device struct {
	// ID is the raw device identifier as configured on the sensor.
	ID string
	// Key is the pre-shared AES-128 key (16 raw bytes).
	Key []byte
}

// Snapshot is a read-only view of the device registry.
type Snapshot struct {
	devices map[string]Device
}

// Load reads the device registry from a JSON file mapping device IDs to
// hex-encoded 16-byte keys.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read devices file")
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse devices file")
	}

	return NewSnapshot(raw)
}

// NewSnapshot builds a registry snapshot from a map of device IDs to
// hex-encoded keys. Keys must decode to exactly 16 bytes (AES-128).
func NewSnapshot(raw map[string]string) (*Snapshot, error) {
	devices := make(map[string]Device, len(raw))
	for id, hexKey := range raw {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, apperrors.Wrapf(err, "invalid key for device %q", id)
		}
		if len(key) != 16 {
			return nil, apperrors.Wrapf(
				apperrors.ErrInvalidInput, "device %q key must be 16 bytes, got %d", id, len(key))
		}
		devices[id] = Device{ID: id, Key: key}
	}

	return &Snapshot{devices: devices}, nil
}

// Lookup returns the device for the given ID. The second return value
// reports whether the device is registered.
func (s *Snapshot) Lookup(id string) (Device, bool) {
	device, ok := s.devices[id]
	return device, ok
}

// Len returns the number of registered devices.
func (s *Snapshot) Len() int {
	return len(s.devices)
}
