package provider

import (
	"fmt"
	"strings"

	"github.com/skanderbz/tutord/internal/session"
)

// tutorSystemPrompt frames every conversational generation. The formatting
// instructions exist because the mascot UI renders plain text and asterisk
// markdown leaks through badly.
const tutorSystemPrompt = `You are an expert AI tutor specializing in artificial intelligence, machine learning, programming, and mathematics. Your role is to:

1. Provide clear, educational explanations
2. Use examples and analogies when helpful
3. Encourage learning and curiosity
4. Break down complex topics into understandable parts
5. Suggest follow-up questions or topics to explore

FORMATTING INSTRUCTIONS:
- Do NOT use asterisks (*) for emphasis or bullet points
- Use simple text formatting with capital letters for emphasis
- Use numbered lists (1., 2., 3.) or dashes (-) for bullet points
- Keep responses conversational and easy to read
- Avoid markdown formatting symbols like *, **, _`

// History windows. The primary provider sees a short tail to keep prompts
// small; the retrieval tier gets a slightly longer one since its prompt is
// built once per request.
const (
	primaryHistoryWindow = 3
	ragHistoryWindow     = 5
)

// buildConversationContext renders the last n exchanges as a plain-text
// transcript block, or "" when there is no history.
func buildConversationContext(history []session.Exchange, n int, userLabel, aiLabel string) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, ex := range history {
		fmt.Fprintf(&b, "%s: %s\n", userLabel, ex.UserText)
		fmt.Fprintf(&b, "%s: %s\n", aiLabel, ex.AIText)
	}
	return b.String()
}

// buildTutorPrompt assembles the full single-shot prompt for providers that
// take one text blob (Gemini-style) rather than structured messages.
func buildTutorPrompt(query string, history []session.Exchange) string {
	var b strings.Builder
	b.WriteString(tutorSystemPrompt)
	b.WriteString("\n\n")

	if conv := buildConversationContext(history, primaryHistoryWindow, "Student", "AI Tutor"); conv != "" {
		b.WriteString(conv)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Student's current question: %s\n\n", query)
	b.WriteString("Please provide a comprehensive, educational response that helps the student learn.")
	return b.String()
}
