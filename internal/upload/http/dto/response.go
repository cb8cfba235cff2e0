package dto

// JoinResponse carries the challenge material for a started handshake.
type JoinResponse struct {
	Session   string `json:"session"`
	Challenge string `json:"challenge"`
	IV        string `json:"iv"`
}

// TokenResponse carries the bearer token after a successful proof.
type TokenResponse struct {
	Token string `json:"token"`
}

// UploadResponse carries the job ID for an accepted upload. The field is
// named uuid on the wire for compatibility with deployed firmware.
type UploadResponse struct {
	UUID string `json:"uuid"`
}
