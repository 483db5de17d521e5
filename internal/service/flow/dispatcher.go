package flow

import (
	"context"
	"log"
	"strings"

	"github.com/yuzuhub/answerphone/internal/audio"
	"github.com/yuzuhub/answerphone/internal/config"
	"github.com/yuzuhub/answerphone/internal/model/flow"
	"github.com/yuzuhub/answerphone/internal/service/session"
)

// Input timeouts handed back to the platform: generous after the greeting,
// shorter on the re-prompt for a silent caller.
const (
	greetingTimeoutSeconds = 30
	repromptTimeoutSeconds = 15
)

// unknownCaller substitutes for a missing phone number.
const unknownCaller = "unbekannt"

// Notifier receives the summary of a finished call. Implementations must not
// block longer than their own delivery timeout and must swallow failures.
type Notifier interface {
	Notify(ctx context.Context, caller string, messages []string)
}

// Dispatcher applies the per-call state machine to incoming platform events.
// Each event yields at most one reply action; nil means "keep listening".
//
// State transitions are decided under the store lock. The notification POST
// always happens after the lock is released, so a slow sink never serializes
// unrelated calls.
type Dispatcher struct {
	store    *session.Store
	notifier Notifier
	beep     *audio.Clip // nil disables the tone
	prompts  config.PromptConfig
}

// NewDispatcher wires the state machine to its collaborators. beep may be nil.
func NewDispatcher(store *session.Store, notifier Notifier, beep *audio.Clip, prompts config.PromptConfig) *Dispatcher {
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		beep:     beep,
		prompts:  prompts,
	}
}

// Handle processes one platform event and returns the reply action, or nil
// for no action. Unknown event types and missing payload fields are tolerated:
// the call proceeds with defaults rather than failing.
func (d *Dispatcher) Handle(ctx context.Context, ev flow.Event) *flow.Action {
	switch ev.Type {
	case flow.EventSessionStart:
		return d.handleSessionStart(ev)
	case flow.EventUserSpeak:
		return d.handleUserSpeak(ev)
	case flow.EventUserInputTimeout:
		return d.handleUserInputTimeout(ctx, ev)
	case flow.EventSessionEnd:
		return d.handleSessionEnd(ctx, ev)
	case flow.EventAssistantSpeak:
		// Informational echo of our own prompt, nothing to do.
		return nil
	case flow.EventAssistantSpeechEnded:
		return d.handleAssistantSpeechEnded(ev)
	default:
		return nil
	}
}

func (d *Dispatcher) handleSessionStart(ev flow.Event) *flow.Action {
	caller := ev.Session.FromPhoneNumber
	if caller == "" {
		caller = unknownCaller
	}
	direction := ev.Session.Direction
	if direction == "" {
		direction = "inbound"
	}
	log.Printf("[flow] call from %s (%s)", caller, direction)

	d.store.GetOrCreate(ev.Session.ID, caller)

	return &flow.Action{
		Type:                    flow.ActionSpeak,
		SessionID:               ev.Session.ID,
		Text:                    d.prompts.Greeting,
		UserInputTimeoutSeconds: greetingTimeoutSeconds,
	}
}

func (d *Dispatcher) handleUserSpeak(ev flow.Event) *flow.Action {
	d.store.GetOrCreate(ev.Session.ID, unknownCaller)

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}

	if !d.store.AppendMessage(ev.Session.ID, text) {
		log.Printf("[flow] message cap reached for session %s, utterance dropped", ev.Session.ID)
	}

	// Replying here would interrupt the caller; 204 keeps the line open.
	return nil
}

func (d *Dispatcher) handleUserInputTimeout(ctx context.Context, ev flow.Event) *flow.Action {
	d.store.GetOrCreate(ev.Session.ID, unknownCaller)

	var (
		wrapUp   bool
		reprompt bool
		caller   string
		messages []string
	)
	d.store.Update(ev.Session.ID, func(s *flow.Session) {
		switch {
		case s.Thanked:
			// Already wrapped up; a duplicate timeout is a no-op.
		case len(s.Messages) > 0:
			s.Thanked = true
			wrapUp = true
			caller = s.Caller
			messages = append([]string(nil), s.Messages...)
		default:
			reprompt = true
		}
	})

	if wrapUp {
		d.notifier.Notify(ctx, caller, messages)
		return &flow.Action{
			Type:      flow.ActionSpeak,
			SessionID: ev.Session.ID,
			Text:      d.prompts.Thanks,
		}
	}

	if reprompt {
		// Silence timeouts routinely fire before the caller says anything;
		// nudging once beats sending an empty summary.
		return &flow.Action{
			Type:                    flow.ActionSpeak,
			SessionID:               ev.Session.ID,
			Text:                    d.prompts.Reprompt,
			UserInputTimeoutSeconds: repromptTimeoutSeconds,
		}
	}

	return nil
}

func (d *Dispatcher) handleSessionEnd(ctx context.Context, ev flow.Event) *flow.Action {
	d.store.GetOrCreate(ev.Session.ID, unknownCaller)

	sess, ok := d.store.Remove(ev.Session.ID)
	log.Printf("[flow] call ended, session %s removed", ev.Session.ID)

	if ok && !sess.Thanked {
		d.notifier.Notify(ctx, sess.Caller, sess.Messages)
	}
	return nil
}

func (d *Dispatcher) handleAssistantSpeechEnded(ev flow.Event) *flow.Action {
	if d.beep == nil {
		return nil
	}

	d.store.GetOrCreate(ev.Session.ID, unknownCaller)

	var play bool
	d.store.Update(ev.Session.ID, func(s *flow.Session) {
		if !s.Beeped {
			s.Beeped = true
			play = true
		}
	})
	if !play {
		return nil
	}

	return &flow.Action{
		Type:      flow.ActionAudio,
		SessionID: ev.Session.ID,
		Audio:     d.beep.Base64(),
	}
}

// HandleEvicted applies the terminal notification rule to a session removed
// by the idle sweeper, so a lost session_end still produces its one summary.
func (d *Dispatcher) HandleEvicted(sess flow.Session) {
	if sess.Thanked {
		return
	}
	d.notifier.Notify(context.Background(), sess.Caller, sess.Messages)
}
