// Package emotion tags answer text with an affect label for the UI mascot.
package emotion

import (
	"regexp"
	"strings"

	"github.com/skanderbz/tutord/internal/rules"
)

// Label is one of the closed set of mascot emotions.
type Label string

const (
	Happy       Label = "happy"
	Thinking    Label = "thinking"
	Explaining  Label = "explaining"
	Encouraging Label = "encouraging"
	Questioning Label = "questioning"
)

// DefaultLabel is returned when no signal is present at all.
const DefaultLabel = Explaining

// emotionTable declares the five labels in precedence order. Declaration
// order is the tie-break: earlier labels win equal scores.
var emotionTable = []rules.Category{
	{
		Name: string(Happy),
		Keywords: []string{
			"great", "excellent", "wonderful", "fantastic", "amazing", "perfect",
			"congratulations", "well done", "brilliant", "awesome", "good job",
		},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`that's\s+(great|excellent|wonderful|fantastic|amazing|perfect)`),
			regexp.MustCompile(`(well\s+done|good\s+job|great\s+work)`),
			regexp.MustCompile(`you\s+(got\s+it|did\s+it|understand|figured\s+it\s+out)`),
		},
	},
	{
		Name: string(Thinking),
		Keywords: []string{
			"let me", "consider", "think", "analyze", "examine", "look at",
			"hmm", "interesting", "complex", "challenging", "difficult",
		},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`let\s+me\s+(think|consider|analyze|examine)`),
			regexp.MustCompile(`this\s+is\s+(interesting|complex|challenging|difficult)`),
			regexp.MustCompile(`(hmm|well|now)`),
			regexp.MustCompile(`i\s+need\s+to\s+(think|consider|analyze)`),
		},
	},
	{
		Name: string(Explaining),
		Keywords: []string{
			"because", "since", "therefore", "thus", "so", "explanation",
			"reason", "cause", "due to", "as a result", "consequently",
		},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(because|since|therefore|thus|so)\s+`),
			regexp.MustCompile(`the\s+reason\s+(is|for|that)`),
			regexp.MustCompile(`this\s+happens\s+because`),
			regexp.MustCompile(`(step\s+by\s+step|first|second|third|next|then|finally)`),
			regexp.MustCompile(`(for\s+example|such\s+as|like)`),
		},
	},
	{
		Name: string(Encouraging),
		Keywords: []string{
			"keep", "try", "practice", "don't worry", "you can", "believe",
			"confident", "progress", "improve", "learning",
		},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(keep\s+trying|keep\s+practicing|don't\s+worry)`),
			regexp.MustCompile(`you\s+can\s+(do\s+it|learn|improve|get\s+better)`),
			regexp.MustCompile(`(practice\s+makes\s+perfect|with\s+practice)`),
			regexp.MustCompile(`you're\s+(learning|improving|making\s+progress)`),
		},
	},
	{
		Name: string(Questioning),
		Keywords: []string{
			"what", "how", "why", "when", "where", "which", "can you",
			"do you", "have you", "would you", "could you",
		},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(what|how|why|when|where|which)\s+`),
			regexp.MustCompile(`(can\s+you|do\s+you|have\s+you|would\s+you|could\s+you)\s+`),
			regexp.MustCompile(`\?`),
		},
	},
}

// Word and phrase sets for the contextual adjustment rules.
var (
	errorIndicators    = []string{"wrong", "incorrect", "mistake", "error", "not right"}
	struggleIndicators = []string{"help", "don't understand", "confused", "stuck", "difficult"}
	praiseWords        = []string{"correct", "right", "good", "excellent", "perfect", "exactly"}
	encouragingPhrases = []string{
		"keep going", "you're on the right track", "good effort",
		"try again", "practice more",
	}
	symbolChars = "=+-*/{}[]"
)

// Classifier is a pure rule-based emotion classifier. It is stateless and
// safe for concurrent use.
type Classifier struct {
	matcher *rules.Matcher
}

// NewClassifier builds a classifier over the fixed emotion table.
func NewClassifier() *Classifier {
	return &Classifier{matcher: rules.NewMatcher(emotionTable)}
}

// Classify returns exactly one label from the fixed set for the given
// response, using the query only for context. It never fails: degenerate
// input falls through to the default label.
func (c *Classifier) Classify(response, query string) Label {
	if strings.TrimSpace(response) == "" {
		return DefaultLabel
	}

	responseLower := strings.ToLower(response)
	queryLower := strings.ToLower(query)

	scores := c.matcher.Scores(responseLower)
	c.applyContextualRules(scores, response, responseLower, queryLower)

	best, ok := c.matcher.Best(scores)
	if !ok {
		return DefaultLabel
	}
	return Label(best.Name)
}

// Score indexes into the table by label name. The table is small enough
// that a linear scan beats maintaining a parallel map.
func scoreIndex(name Label) int {
	for i, cat := range emotionTable {
		if cat.Name == string(name) {
			return i
		}
	}
	return -1
}

// applyContextualRules adds fixed bonuses derived from observable textual
// properties on top of the keyword/pattern base scores.
func (c *Classifier) applyContextualRules(scores []int, response, responseLower, queryLower string) {
	thinking := scoreIndex(Thinking)
	explaining := scoreIndex(Explaining)
	encouraging := scoreIndex(Encouraging)
	happy := scoreIndex(Happy)
	questioning := scoreIndex(Questioning)

	trimmed := strings.TrimSpace(response)

	// Very short answers read as the tutor pausing to think.
	if len(trimmed) < 20 {
		scores[thinking] += 2
	}

	// Formula or code characters signal an explanation.
	if strings.ContainsAny(response, symbolChars) {
		scores[explaining] += 3
	}

	// A student reporting an error or struggling gets encouragement.
	if containsAny(queryLower, errorIndicators) {
		scores[encouraging] += 2
	}
	if containsAny(queryLower, struggleIndicators) {
		scores[encouraging] += 2
	}

	// Two or more distinct praise words is a strong happy signal.
	praiseCount := 0
	for _, word := range praiseWords {
		if strings.Contains(responseLower, word) {
			praiseCount++
		}
	}
	if praiseCount >= 2 {
		scores[happy] += 4
	}

	scores[questioning] += 2 * strings.Count(response, "?")

	// Long, detailed answers lean explanatory.
	if len(trimmed) > 200 {
		scores[explaining] += 2
	}

	// Each matched encouraging phrase stacks.
	for _, phrase := range encouragingPhrases {
		if strings.Contains(responseLower, phrase) {
			scores[encouraging] += 3
		}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Labels returns all labels in precedence order.
func Labels() []Label {
	out := make([]Label, len(emotionTable))
	for i, cat := range emotionTable {
		out[i] = Label(cat.Name)
	}
	return out
}

// Description explains what a label means for the mascot UI.
func Description(label Label) string {
	switch label {
	case Happy:
		return "Cheerful and positive, celebrating success"
	case Thinking:
		return "Contemplative and thoughtful, processing information"
	case Explaining:
		return "Educational and informative, sharing knowledge"
	case Encouraging:
		return "Supportive and motivating, building confidence"
	case Questioning:
		return "Curious and inquisitive, seeking understanding"
	default:
		return "Neutral and calm"
	}
}
