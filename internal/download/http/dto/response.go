package dto

// CheckResponse tells the device how to drive its fetch loop.
type CheckResponse struct {
	Status    string `json:"status"`
	Size      int64  `json:"size"`
	Chunks    int    `json:"chunks"`
	ChunkSize int    `json:"chunksize"`
}

// ChunkResponse is one base64-encoded chunk of result audio. Length zero
// signals end of stream.
type ChunkResponse struct {
	Data   string `json:"data"`
	Chunk  int    `json:"chunk"`
	Length int    `json:"length"`
	Chunks int    `json:"chunks"`
}
