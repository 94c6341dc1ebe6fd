package cascade

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skanderbz/tutord/internal/logging"
	"github.com/skanderbz/tutord/internal/provider"
	"github.com/skanderbz/tutord/internal/session"
)

// fakeProvider is a scriptable provider that counts invocations.
type fakeProvider struct {
	name   string
	result provider.Result
	calls  int
	block  bool // when set, Generate blocks until ctx is done
	panics bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, _ string, _ []session.Exchange) provider.Result {
	f.calls++
	if f.panics {
		panic("scripted panic")
	}
	if f.block {
		<-ctx.Done()
		return provider.Unavailable(ctx.Err())
	}
	return f.result
}

func failing(name string) *fakeProvider {
	return &fakeProvider{name: name, result: provider.Unavailable(errors.New(name + " down"))}
}

func succeeding(name, text string) *fakeProvider {
	return &fakeProvider{name: name, result: provider.Success(text)}
}

func TestResolveFirstSuccessWins(t *testing.T) {
	first := succeeding("first", "answer from first")
	second := succeeding("second", "answer from second")

	c := New(logging.Nop(), Tier{Provider: first}, Tier{Provider: second})
	ans := c.Resolve(context.Background(), "q", nil)

	assert.Equal(t, "answer from first", ans.Text)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "lower tiers must not be invoked")
}

func TestResolveStrictPriorityOrder(t *testing.T) {
	t1 := failing("tier1")
	t2 := failing("tier2")
	t3 := succeeding("tier3", "third tier answer")
	t4 := succeeding("tier4", "should never be seen")

	c := New(logging.Nop(),
		Tier{Provider: t1}, Tier{Provider: t2}, Tier{Provider: t3}, Tier{Provider: t4})
	ans := c.Resolve(context.Background(), "q", nil)

	assert.Equal(t, "third tier answer", ans.Text)
	assert.Equal(t, "tier3", ans.Provider)
	assert.Equal(t, 1, t1.calls)
	assert.Equal(t, 1, t2.calls)
	assert.Equal(t, 1, t3.calls)
	assert.Equal(t, 0, t4.calls)
}

func TestResolveTreatsSentinelAsFailure(t *testing.T) {
	degraded := succeeding("degraded", "I'm experiencing some technical difficulties right now.")
	healthy := succeeding("healthy", "a real answer")

	c := New(logging.Nop(), Tier{Provider: degraded}, Tier{Provider: healthy})
	ans := c.Resolve(context.Background(), "q", nil)

	assert.Equal(t, "a real answer", ans.Text)
	assert.Equal(t, 1, degraded.calls, "degraded provider is not retried within one call")
}

func TestResolveSkipsBlankText(t *testing.T) {
	blank := succeeding("blank", "   \n ")
	healthy := succeeding("healthy", "content")

	c := New(logging.Nop(), Tier{Provider: blank}, Tier{Provider: healthy})
	assert.Equal(t, "content", c.Resolve(context.Background(), "q", nil).Text)
}

func TestResolveAllFailingStillAnswers(t *testing.T) {
	c := New(logging.Nop(),
		Tier{Provider: failing("a")},
		Tier{Provider: failing("b")},
		Tier{Provider: failing("c")})

	ans := c.Resolve(context.Background(), "anything at all", nil)
	require.NotEmpty(t, strings.TrimSpace(ans.Text))
	assert.Equal(t, "redirect", ans.Provider)
	assert.False(t, IsDegraded(ans.Text), "final redirect must not trip the sentinel check")
}

func TestResolveWithNoTiersAtAll(t *testing.T) {
	c := New(logging.Nop())
	ans := c.Resolve(context.Background(), "q", nil)
	assert.NotEmpty(t, strings.TrimSpace(ans.Text))
}

func TestResolveTimesOutSlowProvider(t *testing.T) {
	slow := &fakeProvider{name: "slow", block: true}
	fast := succeeding("fast", "quick answer")

	c := New(logging.Nop(),
		Tier{Provider: slow, Timeout: 20 * time.Millisecond},
		Tier{Provider: fast})

	start := time.Now()
	ans := c.Resolve(context.Background(), "q", nil)

	assert.Equal(t, "quick answer", ans.Text)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolveRecoversPanickingAdapter(t *testing.T) {
	bad := &fakeProvider{name: "bad", panics: true}
	good := succeeding("good", "safe answer")

	c := New(logging.Nop(), Tier{Provider: bad}, Tier{Provider: good})

	assert.NotPanics(t, func() {
		ans := c.Resolve(context.Background(), "q", nil)
		assert.Equal(t, "safe answer", ans.Text)
	})
}

func TestIsDegraded(t *testing.T) {
	assert.True(t, IsDegraded("I'm EXPERIENCING SOME TECHNICAL DIFFICULTIES"))
	assert.True(t, IsDegraded("sorry, model not available"))
	assert.False(t, IsDegraded("gradient descent minimizes the loss"))
	assert.False(t, IsDegraded(""))
}
