package structuring

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// ParseItemsJSON validates a structuring response of the form
// {"items":[{"name":string,"quantity":integer>=1}, ...]}.
// A Markdown code fence around the JSON is tolerated. Anything else,
// including an empty list, fails the whole response.
func ParseItemsJSON(raw string) ([]models.ParsedItem, error) {
	body := stripCodeFence(raw)
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", domain.ErrExtractionFailed)
	}

	root := gjson.Parse(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: response is not a JSON object", domain.ErrExtractionFailed)
	}
	list := root.Get("items")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: response has no items array", domain.ErrExtractionFailed)
	}

	elems := list.Array()
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: response has no items", domain.ErrExtractionFailed)
	}

	out := make([]models.ParsedItem, 0, len(elems))
	for i, el := range elems {
		item, err := parseItem(el)
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d]: %w", domain.ErrExtractionFailed, i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func parseItem(el gjson.Result) (models.ParsedItem, error) {
	if !el.IsObject() {
		return models.ParsedItem{}, fmt.Errorf("not an object")
	}

	name := el.Get("name")
	if name.Type != gjson.String {
		return models.ParsedItem{}, fmt.Errorf("name must be a string")
	}
	n := strings.TrimSpace(name.String())
	if n == "" {
		return models.ParsedItem{}, fmt.Errorf("name is empty")
	}

	qty := el.Get("quantity")
	if qty.Type != gjson.Number {
		return models.ParsedItem{}, fmt.Errorf("quantity must be a number")
	}
	q := qty.Float()
	if q != math.Trunc(q) || q < 1 || q > math.MaxInt32 {
		return models.ParsedItem{}, fmt.Errorf("quantity %s is not a positive integer", qty.Raw)
	}

	return models.ParsedItem{Name: n, Quantity: int(q)}, nil
}

// stripCodeFence removes a leading ```/```json line and a trailing ``` line.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
