package domain

import (
	"time"
)

// Token timing, fixed by the device protocol.
const (
	// TokenNotBeforeDelay is how long after issuance a token becomes usable.
	TokenNotBeforeDelay = 1 * time.Second
	// TokenLifetime is the duration from issuance to expiry.
	TokenLifetime = 10 * time.Minute
	// TokenLeeway is the clock-skew allowance applied on both validity edges.
	TokenLeeway = 10 * time.Second
)

// TokenIdentity is the identity recovered from a validated bearer token.
// It must only be constructed after signature and claim validation; the
// sensor ID here is the sole source of authorization decisions downstream.
type TokenIdentity struct {
	// IdentifiedBy is the namespaced identity (jti claim), e.g. "Sensor_7".
	IdentifiedBy string
	// Sensor is the bound identity from the custom sensor claim.
	Sensor string
}
