package emotion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyInputReturnsDefault(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, DefaultLabel, c.Classify("", ""))
	assert.Equal(t, DefaultLabel, c.Classify("   \t\n  ", "anything"))
}

func TestClassifyShortResponseIsThinking(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, Thinking, c.Classify("OK.", "is this right?"))
	assert.Equal(t, Thinking, c.Classify("Hmm.", ""))
}

func TestClassifyPraiseIsHappy(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("Excellent! That's correct, exactly right.", "did I get it?")
	assert.Equal(t, Happy, got)
}

func TestClassifyQuestionsAreQuestioning(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("What would you like to learn? Do you prefer examples?", "")
	assert.Equal(t, Questioning, got)
}

func TestClassifyStrugglingStudentGetsEncouragement(t *testing.T) {
	c := NewClassifier()

	got := c.Classify(
		"Don't worry, keep trying! You can do it. Practice makes perfect.",
		"I'm stuck and confused",
	)
	assert.Equal(t, Encouraging, got)
}

func TestClassifyFormulaIsExplaining(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, Explaining, c.Classify("x = y + 2", ""))
}

func TestClassifyLongAnswerLeansExplaining(t *testing.T) {
	c := NewClassifier()

	long := strings.Repeat("the gradient descends along the loss surface ", 6)
	assert.Equal(t, Explaining, c.Classify(long, ""))
}

func TestClassifyTieBreaksByPrecedence(t *testing.T) {
	c := NewClassifier()

	// "great great" scores happy 2 (keywords) and thinking 2 (short-answer
	// bonus); precedence order puts happy first.
	assert.Equal(t, Happy, c.Classify("great great", ""))
}

func TestClassifyAlwaysReturnsKnownLabel(t *testing.T) {
	c := NewClassifier()
	valid := make(map[Label]bool)
	for _, l := range Labels() {
		valid[l] = true
	}

	inputs := []string{
		"",
		" ",
		"\x00\x7f\x01",
		"????????",
		strings.Repeat("a", 10000),
		"∂f/∂x = 2x — classic calculus",
		"{\"json\": true}",
	}
	for _, in := range inputs {
		got := c.Classify(in, in)
		assert.True(t, valid[got], "input %q produced unknown label %q", in, got)
	}
}

func TestDescriptionsCoverAllLabels(t *testing.T) {
	for _, l := range Labels() {
		assert.NotEqual(t, "Neutral and calm", Description(l))
	}
	assert.Equal(t, "Neutral and calm", Description(Label("bogus")))
}
