package flow

import "time"

// Session is the server-side record of one ongoing call.
//
// Messages preserves caller utterance order exactly as received. Beeped and
// Thanked are one-shot flags: once true they never reset, which keeps the
// signal tone and the closing notification at most once per call.
type Session struct {
	ID       string
	Caller   string
	Messages []string
	Beeped   bool
	Thanked  bool
	LastSeen time.Time
}
