package structuring

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/services/inventory/domain/ports"
)

// New builds the structurer selected by cfg.StructuringProvider, wrapped in
// an LRU memo when STRUCTURING_CACHE_SIZE is positive.
func New(cfg *config.Config) (ports.Structurer, error) {
	var model llms.Model
	var err error

	switch cfg.StructuringProvider {
	case config.ProviderNone, "":
		return Unavailable{}, nil
	case config.ProviderOpenAI:
		model, err = newOpenAI(cfg)
	case config.ProviderOllama:
		model, err = newOllama(cfg)
	default:
		return nil, fmt.Errorf("unsupported structuring provider: %s", cfg.StructuringProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", cfg.StructuringProvider, err)
	}

	var s ports.Structurer = NewLangChainStructurer(model, cfg.StructuringProvider)
	if cfg.StructuringCacheSize > 0 {
		if s, err = NewCachedStructurer(s, cfg.StructuringCacheSize); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newOpenAI(cfg *config.Config) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.StructuringModel),
	}
	if cfg.StructuringAPIKey != "" {
		opts = append(opts, openai.WithToken(cfg.StructuringAPIKey))
	}
	if cfg.StructuringBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.StructuringBaseURL))
	}
	return openai.New(opts...)
}

func newOllama(cfg *config.Config) (llms.Model, error) {
	opts := []ollama.Option{
		ollama.WithModel(cfg.StructuringModel),
		ollama.WithFormat("json"),
	}
	if cfg.StructuringBaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.StructuringBaseURL))
	}
	return ollama.New(opts...)
}
