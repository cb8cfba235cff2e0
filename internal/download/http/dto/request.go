// Package dto provides data transfer objects for the download endpoint.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/digital-codes/platansense/internal/validation"
)

// Commands accepted by the download endpoint.
const (
	CommandCheck = "check"
	CommandDown  = "down"
)

// CommandRequest is the single request shape shared by both download-endpoint
// commands. The field names are fixed by the device firmware.
type CommandRequest struct {
	Command string `json:"command"`
	// Name is the job ID whose result the device wants.
	Name string `json:"name"`
	// ID is the raw device identifier.
	ID string `json:"id"`
	// Token is the bearer token.
	Token string `json:"token"`
	// Chunk is the zero-based chunk index for the down command.
	Chunk int `json:"chunk"`
}

// ValidateCheck checks the fields the check command requires.
func (r *CommandRequest) ValidateCheck() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.JobName),
		validation.Field(&r.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Token, validation.Required, customValidation.NotBlank),
	)
}

// ValidateDown checks the fields the down command requires. The chunk index
// is not range-checked here; an out-of-range index is the client's
// end-of-stream probe, answered by the use case.
func (r *CommandRequest) ValidateDown() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.JobName),
		validation.Field(&r.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Token, validation.Required, customValidation.NotBlank),
	)
}
