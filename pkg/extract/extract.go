// Package extract locates a numeric price inside fetched page markup.
//
// Extraction runs an ordered chain of strategies; the first strategy that
// yields candidate text wins, and the candidate is then reduced to a
// number. The chain is deterministic: identical input bytes always
// produce the same result.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"pricewatch/pkg/model"
)

// currencyPattern matches digits with optional thousands separators and
// an optional single decimal point, e.g. "1,299.99".
var currencyPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// Strategy is one step in the fallback chain. Find returns candidate
// price text and whether the strategy matched. Strategies must be pure.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document) (string, bool)
}

// Extractor reduces page markup to a price via its strategy chain.
type Extractor struct {
	strategies []Strategy
}

// New creates an extractor with the default strategy chain: known price
// element IDs first, then a full-text scan for the first currency-like
// token.
func New(rules Rules) *Extractor {
	return &Extractor{
		strategies: []Strategy{
			elementStrategy(rules.ElementIDs),
			textScanStrategy(),
		},
	}
}

// Extract parses pageContent as a markup document and runs the strategy
// chain. The returned price carries the name of the winning strategy.
func (e *Extractor) Extract(pageContent []byte) (model.ExtractedPrice, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageContent))
	if err != nil {
		return model.ExtractedPrice{}, model.WrapError(model.KindNoPriceFound, err, "page is not parseable markup")
	}

	var candidate, source string
	for _, s := range e.strategies {
		if text, ok := s.Find(doc); ok {
			candidate, source = text, s.Name
			break
		}
	}
	if candidate == "" {
		return model.ExtractedPrice{}, model.Errorf(model.KindNoPriceFound, "no price text found on page")
	}

	token := currencyPattern.FindString(candidate)
	if token == "" {
		return model.ExtractedPrice{}, model.Errorf(model.KindUnrecognizedFormat, "price text %q contains no numeric token", candidate)
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(token, ",", ""))
	if err != nil {
		return model.ExtractedPrice{}, model.WrapError(model.KindParseFailure, err, "numeric token %q does not parse", token)
	}

	return model.ExtractedPrice{Value: value, Source: source}, nil
}

// elementStrategy looks up each known element ID in priority order and
// returns the first non-empty text content.
func elementStrategy(ids []string) Strategy {
	return Strategy{
		Name: "element",
		Find: func(doc *goquery.Document) (string, bool) {
			for _, id := range ids {
				text := strings.TrimSpace(doc.Find("#" + id).First().Text())
				if text != "" {
					return text, true
				}
			}
			return "", false
		},
	}
}

// textScanStrategy scans the full visible text for the first
// currency-like token. The first token wins even when it is unrelated to
// the price (a review count, say); callers rely on the element strategy
// running first to avoid that.
func textScanStrategy() Strategy {
	return Strategy{
		Name: "text_scan",
		Find: func(doc *goquery.Document) (string, bool) {
			match := currencyPattern.FindString(doc.Text())
			return match, match != ""
		},
	}
}
