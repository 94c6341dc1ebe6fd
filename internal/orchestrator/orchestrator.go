// Package orchestrator ties the cascade, the conversation store, and the
// emotion classifier into the operations the HTTP surface exposes.
package orchestrator

import (
	"context"

	"github.com/skanderbz/tutord/internal/cascade"
	"github.com/skanderbz/tutord/internal/emotion"
	"github.com/skanderbz/tutord/internal/logging"
	"github.com/skanderbz/tutord/internal/session"
)

// Reply is one answered query.
type Reply struct {
	Text     string
	Emotion  emotion.Label
	Provider string
}

// ChatReply is a Reply bound to a conversation session.
type ChatReply struct {
	Reply
	SessionID string
}

// Orchestrator answers student queries. It is safe for concurrent use.
type Orchestrator struct {
	store      *session.Store
	cascade    *cascade.Cascade
	classifier *emotion.Classifier
	log        *logging.Logger
}

// New wires an orchestrator. All collaborators are required except log.
func New(store *session.Store, c *cascade.Cascade, log *logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Orchestrator{
		store:      store,
		cascade:    c,
		classifier: emotion.NewClassifier(),
		log:        log.Component("orchestrator"),
	}
}

// Query answers a one-shot question with no conversation memory.
func (o *Orchestrator) Query(ctx context.Context, text string) Reply {
	answer := o.cascade.Resolve(ctx, text, nil)
	o.log.Info().Str("provider", answer.Provider).Msg("query answered")
	return Reply{
		Text:     answer.Text,
		Emotion:  o.classifier.Classify(answer.Text, text),
		Provider: answer.Provider,
	}
}

// Chat answers a question inside a session. An empty sessionID starts a
// new conversation; the exchange is recorded after a successful answer.
func (o *Orchestrator) Chat(ctx context.Context, text, sessionID string) ChatReply {
	if sessionID == "" {
		sessionID = o.store.Create()
	}
	history := o.store.GetHistory(sessionID)

	answer := o.cascade.Resolve(ctx, text, history)
	o.store.Append(sessionID, text, answer.Text)

	o.log.Info().Str("session_id", sessionID).Str("provider", answer.Provider).
		Int("history", len(history)).Msg("chat answered")
	return ChatReply{
		Reply: Reply{
			Text:     answer.Text,
			Emotion:  o.classifier.Classify(answer.Text, text),
			Provider: answer.Provider,
		},
		SessionID: sessionID,
	}
}

// ClearSession drops a conversation.
func (o *Orchestrator) ClearSession(id string) {
	o.store.Clear(id)
}

// Sessions lists active conversations.
func (o *Orchestrator) Sessions() []session.Info {
	return o.store.List()
}

// Stats summarizes the conversation store.
func (o *Orchestrator) Stats() session.Stats {
	return o.store.GetStats()
}
