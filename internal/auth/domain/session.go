// Package domain defines the core models for the device authentication
// handshake: challenge sessions and the identity naming scheme shared with
// the bearer token service.
package domain

import (
	"time"
)

// SessionTTL is how long a challenge session stays valid after Join.
const SessionTTL = 60 * time.Second

// SensorPrefix namespaces device identities inside tokens and job IDs.
const SensorPrefix = "Sensor_"

// ChallengeSession is the single-use state between Join and Respond.
// Consumed exactly once; replaying an old (session, proof) pair must fail.
type ChallengeSession struct {
	// DeviceID is the raw device identifier the session was created for.
	DeviceID string `json:"device_id"`
	// SessionID is the unguessable handle returned to the device.
	SessionID string `json:"session_id"`
	// Challenge is the hex-encoded 16-byte nonce the device must transform.
	Challenge string `json:"challenge"`
	// IV is the hex-encoded 16-byte initialization vector for the transform.
	IV string `json:"iv"`
	// CreatedAt is when Join issued this session.
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is older than SessionTTL.
func (s *ChallengeSession) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > SessionTTL
}

// IdentityFor returns the namespaced identity string bound into tokens for
// the given raw device ID.
func IdentityFor(deviceID string) string {
	return SensorPrefix + deviceID
}
