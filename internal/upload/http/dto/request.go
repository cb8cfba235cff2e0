// Package dto provides data transfer objects for the upload endpoint.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/digital-codes/platansense/internal/validation"
)

// Commands accepted by the upload endpoint.
const (
	CommandJoin      = "join"
	CommandChallenge = "challenge"
	CommandData      = "data"
)

// CommandRequest is the single request shape shared by all upload-endpoint
// commands. Which fields are required depends on the command; the field
// names are fixed by the device firmware.
type CommandRequest struct {
	Command string `json:"command"`
	// ID is the raw device identifier.
	ID string `json:"id"`
	// Session is the challenge session handle from a previous join.
	Session string `json:"session"`
	// Challenge is the hex-encoded proof for the challenge command.
	Challenge string `json:"challenge"`
	// Token is the bearer token for the data command.
	Token string `json:"token"`
	// Data is the base64-encoded audio payload for the data command.
	Data string `json:"data"`
	// Format is the optional audio format hint for the data command.
	Format string `json:"format"`
}

// ValidateJoin checks the fields the join command requires.
func (r *CommandRequest) ValidateJoin() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, customValidation.NotBlank),
	)
}

// ValidateChallenge checks the fields the challenge command requires.
func (r *CommandRequest) ValidateChallenge() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Session, validation.Required, customValidation.HexString),
		validation.Field(&r.Challenge, validation.Required, customValidation.HexString),
	)
}

// ValidateData checks the fields the data command requires. The payload is
// not base64-validated here; the use case decodes it once and rejects
// undecodable input, avoiding a second pass over up to half a megabyte.
func (r *CommandRequest) ValidateData() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Token, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Data, validation.Required),
	)
}
