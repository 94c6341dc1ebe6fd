package cli

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
	"google.golang.org/genai"

	"github.com/skanderbz/tutord/internal/cascade"
	"github.com/skanderbz/tutord/internal/config"
	"github.com/skanderbz/tutord/internal/knowledge"
	"github.com/skanderbz/tutord/internal/provider"
)

// buildKnowledge opens the knowledge base. Without a Gemini key there is
// no embedding backend and retrieval runs keyword-only.
func buildKnowledge(ctx context.Context, cfg config.Config) (*knowledge.Manager, error) {
	return knowledge.NewManager(ctx, cfg.Knowledge, geminiEmbedding(ctx, cfg), log)
}

func geminiEmbedding(ctx context.Context, cfg config.Config) chromem.EmbeddingFunc {
	if cfg.Providers.GeminiAPIKey == "" {
		return nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.Providers.GeminiAPIKey})
	if err != nil {
		log.Warn().Err(err).Msg("failed to create embedding client, retrieval is keyword-only")
		return nil
	}
	return knowledge.NewGeminiEmbedding(client, "")
}

// buildCascade assembles the fallback chain: primary LLM, retrieval,
// secondary LLM, static topics. Tiers whose backends cannot be
// constructed are skipped with a warning rather than installed broken;
// the chain always ends in the built-in redirect.
func buildCascade(ctx context.Context, cfg config.Config, mgr *knowledge.Manager) *cascade.Cascade {
	var tiers []cascade.Tier

	primaryTimeout := cfg.Providers.HostedTimeout
	if isLocalBackend(cfg.Providers.Primary) {
		primaryTimeout = cfg.Providers.LocalTimeout
	}

	primary, err := provider.NewPrimary(ctx, cfg.Providers)
	if err != nil {
		log.Warn().Err(err).Msg("primary provider unavailable, skipping tier")
		primary = nil
	} else {
		tiers = append(tiers, cascade.Tier{Provider: primary, Timeout: primaryTimeout})
	}

	if mgr != nil && primary != nil {
		rag := provider.NewRAGProvider(mgr.Searcher(), primary, cfg.Knowledge.TopK)
		tiers = append(tiers, cascade.Tier{Provider: rag, Timeout: cfg.Providers.LocalTimeout})
	}

	if cfg.Providers.OpenAIAPIKey != "" || isLocalBackend(cfg.Providers.Primary) {
		secondary, err := provider.NewSecondary(cfg.Providers)
		if err != nil {
			log.Warn().Err(err).Msg("secondary provider unavailable, skipping tier")
		} else {
			tiers = append(tiers, cascade.Tier{Provider: secondary, Timeout: cfg.Providers.HostedTimeout})
		}
	}

	// Static topics compute locally; no timeout needed.
	tiers = append(tiers, cascade.Tier{Provider: provider.NewStaticProvider()})

	return cascade.New(log, tiers...)
}

func isLocalBackend(name string) bool {
	return name == "ollama" || name == "lmstudio"
}
