package flow

// Action types this service can instruct the platform to perform.
const (
	ActionSpeak = "speak"
	ActionAudio = "audio"
)

// Action is the reply sent back to the platform. A nil action means the
// platform should keep listening (HTTP 204, empty body).
type Action struct {
	Type                    string `json:"type"`
	SessionID               string `json:"session_id"`
	Text                    string `json:"text,omitempty"`
	UserInputTimeoutSeconds int    `json:"user_input_timeout_seconds,omitempty"`
	Audio                   string `json:"audio,omitempty"`
}
