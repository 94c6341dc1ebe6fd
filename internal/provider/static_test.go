package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skanderbz/tutord/internal/session"
)

func TestStaticProviderTopicMatching(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	tests := []struct {
		query string
		want  string
	}{
		{"explain neural networks to me", "Machine Learning is a subset"},
		{"how do I write a python function", "Programming is the process"},
		{"what is linear algebra", "Mathematics is fundamental"},
		{"help me pick a topic", "I'm here to help you learn"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := p.Generate(ctx, tt.query, nil)
			require.True(t, res.OK())
			assert.Contains(t, res.Text, tt.want)
		})
	}
}

func TestStaticProviderCaseInsensitive(t *testing.T) {
	p := NewStaticProvider()

	res := p.Generate(context.Background(), "Tell me about MACHINE LEARNING", nil)
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "Machine Learning is a subset")
}

func TestStaticProviderFallsBackToRedirect(t *testing.T) {
	p := NewStaticProvider()

	res := p.Generate(context.Background(), "tell me about medieval pottery", nil)
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "rephrase your question")
}

func TestStaticProviderIsDeterministic(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	first := p.Generate(ctx, "what is calculus", nil)
	second := p.Generate(ctx, "what is calculus", nil)
	assert.Equal(t, first.Text, second.Text)
}

func TestRedirectProviderNeverFails(t *testing.T) {
	p := NewRedirectProvider()

	for _, q := range []string{"", "anything", strings.Repeat("x", 5000)} {
		res := p.Generate(context.Background(), q, []session.Exchange{{UserText: "a", AIText: "b"}})
		require.True(t, res.OK())
		assert.NotEmpty(t, strings.TrimSpace(res.Text))
	}
}

func TestBuildTutorPromptIncludesRecentHistory(t *testing.T) {
	history := []session.Exchange{
		{UserText: "q1", AIText: "a1"},
		{UserText: "q2", AIText: "a2"},
		{UserText: "q3", AIText: "a3"},
		{UserText: "q4", AIText: "a4"},
	}

	prompt := buildTutorPrompt("current question", history)

	// Only the last three exchanges survive the window.
	assert.NotContains(t, prompt, "q1")
	assert.Contains(t, prompt, "Student: q2")
	assert.Contains(t, prompt, "AI Tutor: a4")
	assert.Contains(t, prompt, "Student's current question: current question")
}
