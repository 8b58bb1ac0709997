package types

import "encoding/json"

type ErrorResponse struct {
	Error string `json:"error"`
}

// CallbackResponse is returned to the workflow engine after a callback was
// stored. The debug block echoes what was extracted so workflow authors can
// see how their payload was interpreted.
type CallbackResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Source  string        `json:"source"`
	Debug   CallbackDebug `json:"debug"`
}

type CallbackDebug struct {
	ExtractedMessage string          `json:"extractedMessage"`
	RawResponse      string          `json:"rawResponse"`
	OriginalData     json.RawMessage `json:"originalData"`
}

// CheckResponse is the polling endpoint envelope. Data is null when no reply
// is pending.
type CheckResponse struct {
	Success bool          `json:"success"`
	Data    *MailboxEntry `json:"data"`
	Debug   CheckDebug    `json:"debug"`
}

type CheckDebug struct {
	MessageLength  int    `json:"messageLength,omitempty"`
	MessagePreview string `json:"messagePreview,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	CheckTime      string `json:"checkTime,omitempty"`
}
