// Package provider defines the answer-provider contract and the adapters
// for each external capability the cascade can draw on.
package provider

import (
	"context"

	"github.com/skanderbz/tutord/internal/session"
)

// Result is the tagged outcome of one provider invocation: either usable
// text or an unavailability reason. Never both, never partially successful.
// Providers return Result instead of raising so the cascade's failure
// handling stays declarative.
type Result struct {
	Text string
	Err  error
}

// Success wraps answer text.
func Success(text string) Result {
	return Result{Text: text}
}

// Unavailable wraps a failure reason.
func Unavailable(err error) Result {
	return Result{Err: err}
}

// OK reports whether the provider produced text.
func (r Result) OK() bool {
	return r.Err == nil
}

// Provider is one answer source. Generate must honor ctx cancellation
// (the cascade imposes a per-provider timeout through it) and must convert
// any internal failure into an Unavailable result rather than panicking.
type Provider interface {
	Name() string
	Generate(ctx context.Context, query string, history []session.Exchange) Result
}

// Document is one retrieved knowledge snippet with its relevance score.
type Document struct {
	Text   string
	Source string
	Score  float64
}

// Retriever is the narrow search contract the retrieval-augmented provider
// consumes. Implementations may return an empty slice without error.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]Document, error)
}
