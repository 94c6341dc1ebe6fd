package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/skanderbz/tutord/internal/session"
)

// RAGProvider blends retrieved knowledge with the query and defers the
// actual generation to a wrapped LLM provider. It reports Unavailable when
// retrieval yields nothing; the plain-LLM tier behind it covers that case
// without a redundant second generation attempt here.
type RAGProvider struct {
	retriever Retriever
	llm       Provider
	topK      int
}

// NewRAGProvider wraps a retriever and a generation provider.
func NewRAGProvider(retriever Retriever, llm Provider, topK int) *RAGProvider {
	if topK <= 0 {
		topK = 4
	}
	return &RAGProvider{retriever: retriever, llm: llm, topK: topK}
}

// Name implements Provider.
func (p *RAGProvider) Name() string { return "rag" }

// Generate implements Provider.
func (p *RAGProvider) Generate(ctx context.Context, query string, history []session.Exchange) Result {
	docs, err := p.retriever.Search(ctx, query, p.topK)
	if err != nil {
		return Unavailable(fmt.Errorf("retrieval failed: %w", err))
	}
	if len(docs) == 0 {
		return Unavailable(fmt.Errorf("no relevant documents for query"))
	}

	var b strings.Builder
	b.WriteString("Use the following course material to answer the student's question. ")
	b.WriteString("If the material does not cover the question, answer from general knowledge and say so.\n\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "Material %d (%s):\n%s\n\n", i+1, doc.Source, doc.Text)
	}
	if conv := buildConversationContext(history, ragHistoryWindow, "User", "AI"); conv != "" {
		b.WriteString(conv)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Current question: %s", query)

	// History is already inlined above; the inner provider gets none.
	return p.llm.Generate(ctx, b.String(), nil)
}
