// Package cascade tries answer providers in fixed priority order until one
// yields usable text. It never fails past its boundary: the final tier is
// an unconditional generic redirect.
package cascade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skanderbz/tutord/internal/logging"
	"github.com/skanderbz/tutord/internal/provider"
	"github.com/skanderbz/tutord/internal/session"
)

// sentinelPhrases mark text a provider returned instead of failing
// honestly. A nominal success containing one of these is treated as
// Unavailable so the cascade keeps going instead of serving an apology
// string as the answer.
var sentinelPhrases = []string{
	"experiencing some technical difficulties",
	"having trouble generating a response",
	"model not available",
	"model temporarily unavailable",
	"not properly configured",
}

// IsDegraded reports whether text matches a known degraded sentinel.
func IsDegraded(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range sentinelPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// Tier pairs a provider with its independent call timeout. A zero timeout
// means the provider inherits the caller's deadline unchanged.
type Tier struct {
	Provider provider.Provider
	Timeout  time.Duration
}

// Answer is the cascade's result: the text plus which provider produced
// it, for logging and tests.
type Answer struct {
	Text     string
	Provider string
}

// Cascade is the ordered fallback chain. Providers are awaited one at a
// time, never raced, so priority order is execution order.
type Cascade struct {
	tiers []Tier
	final provider.Provider
	log   *logging.Logger
}

// New builds a cascade over the given tiers. The unconditional redirect
// tier is always appended internally and cannot be omitted.
func New(log *logging.Logger, tiers ...Tier) *Cascade {
	if log == nil {
		log = logging.Nop()
	}
	return &Cascade{
		tiers: tiers,
		final: provider.NewRedirectProvider(),
		log:   log.Component("cascade"),
	}
}

// Resolve produces an answer for the query. Each provider is invoked at
// most once per call; moving down the chain is the only retry mechanism.
// Resolve never returns empty text.
func (c *Cascade) Resolve(ctx context.Context, query string, history []session.Exchange) Answer {
	for _, tier := range c.tiers {
		res := c.invoke(ctx, tier, query, history)

		switch {
		case !res.OK():
			c.log.Warn().Str("provider", tier.Provider.Name()).
				Err(res.Err).Msg("provider unavailable, trying next")
		case strings.TrimSpace(res.Text) == "":
			c.log.Warn().Str("provider", tier.Provider.Name()).
				Msg("provider returned blank text, trying next")
		case IsDegraded(res.Text):
			c.log.Warn().Str("provider", tier.Provider.Name()).
				Msg("provider returned degraded sentinel, trying next")
		default:
			c.log.Debug().Str("provider", tier.Provider.Name()).Msg("answer resolved")
			return Answer{Text: res.Text, Provider: tier.Provider.Name()}
		}
	}

	res := c.final.Generate(ctx, query, history)
	return Answer{Text: res.Text, Provider: c.final.Name()}
}

// invoke runs one provider under its timeout, converting a panic inside an
// adapter into an Unavailable result so a misbehaving SDK can never take
// the whole cascade down.
func (c *Cascade) invoke(ctx context.Context, tier Tier, query string, history []session.Exchange) (res provider.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = provider.Unavailable(fmt.Errorf("provider %s panicked: %v", tier.Provider.Name(), r))
		}
	}()

	if tier.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tier.Timeout)
		defer cancel()
	}
	return tier.Provider.Generate(ctx, query, history)
}
