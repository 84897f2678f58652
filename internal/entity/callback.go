package entity

// CallbackEventType identifies the kind of callback delivery
type CallbackEventType string

const (
	CallbackEventTypeResult CallbackEventType = "proposal_result"
	CallbackEventTypeError  CallbackEventType = "proposal_error"
)

// CallbackEvent is the envelope posted to a client callback URL
type CallbackEvent struct {
	Event     CallbackEventType `json:"event"`
	Timestamp string            `json:"timestamp,omitempty"`
	Data      any               `json:"data"`
}

type CallbackErrorDetails struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type CallbackErrorData struct {
	Error CallbackErrorDetails `json:"error"`
}
