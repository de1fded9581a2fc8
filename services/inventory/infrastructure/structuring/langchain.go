// Package structuring implements ports.Structurer: a networked LLM backend
// through langchaingo, an LRU memo in front of it, and deterministic
// stand-ins for tests and for deployments without a model.
package structuring

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// instruction is sent as the system message of every request.
const instruction = `You convert a household inventory note into structured records.
Reply with a single JSON object and nothing else, shaped exactly like:
{"items":[{"name":"<item name>","quantity":<integer >= 1>}]}
Rules:
- One record per distinct item, in the order the note mentions them.
- "quantity" is the count of that item; use 1 when no count is given.
- "name" is the item without the count, e.g. "3 boxes of nails" -> {"name":"boxes of nails","quantity":3}.
- Never invent items that are not in the note.`

// LangChainStructurer asks an LLM to structure the text.
type LangChainStructurer struct {
	model llms.Model
	name  string
}

// NewLangChainStructurer wraps model; name identifies the provider in errors.
func NewLangChainStructurer(model llms.Model, name string) *LangChainStructurer {
	return &LangChainStructurer{model: model, name: name}
}

// Structure performs exactly one model call.
func (s *LangChainStructurer) Structure(ctx context.Context, raw string) ([]models.ParsedItem, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, instruction),
		llms.TextParts(llms.ChatMessageTypeHuman, raw),
	}

	resp, err := s.model.GenerateContent(ctx, messages,
		llms.WithJSONMode(),
		llms.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, s.name, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s returned no choices", domain.ErrExtractionFailed, s.name)
	}

	return ParseItemsJSON(resp.Choices[0].Content)
}
