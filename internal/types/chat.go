package types

// ChatRequest is the single inbound request shape.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the answer text and an optional source link.
type ChatResponse struct {
	Answer string `json:"answer"`
	Source string `json:"source,omitempty"`
}
