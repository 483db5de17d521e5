package flow

// Event types emitted by the telephony platform.
const (
	EventSessionStart         = "session_start"
	EventUserSpeak            = "user_speak"
	EventUserInputTimeout     = "user_input_timeout"
	EventSessionEnd           = "session_end"
	EventAssistantSpeak       = "assistant_speak"
	EventAssistantSpeechEnded = "assistant_speech_ended"
)

// Event is one webhook notification from the platform.
type Event struct {
	Type    string       `json:"type"`
	Session EventSession `json:"session"`
	Text    string       `json:"text,omitempty"`
}

// EventSession carries the call context attached to every event. Only
// session_start populates the phone number and direction.
type EventSession struct {
	ID              string `json:"id"`
	FromPhoneNumber string `json:"from_phone_number,omitempty"`
	Direction       string `json:"direction,omitempty"`
}
