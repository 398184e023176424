package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const keywordPrompt = `As an expert business analyst, identify comprehensive keywords for analysis purposes related to:

Company: %s
Sector: %s
Service: %s

Please provide keywords in the following categories:

1. DIRECT KEYWORDS: Terms directly related to the company name, sector, and service
2. INDIRECT KEYWORDS: Terms that could indirectly impact the business (economic factors, social trends, etc.)
3. INDUSTRY TERMS: Technical jargon, industry-specific terminology
4. COMPETITIVE KEYWORDS: Terms related to competitors, market share, positioning
5. TREND KEYWORDS: Current trends, emerging technologies, market shifts affecting this sector
6. REGULATORY KEYWORDS: Compliance, regulations, legal requirements relevant to this sector

Focus on keywords that would be valuable for market analysis, competitive intelligence, trend monitoring, risk assessment and opportunity identification.

Provide 5-15 keywords per category where applicable.

Output as JSON only, no other text:
{
  "direct_keywords": ["..."],
  "indirect_keywords": ["..."],
  "industry_terms": ["..."],
  "competitive_keywords": ["..."],
  "trend_keywords": ["..."],
  "regulatory_keywords": ["..."]
}`

type KeywordSet struct {
	DirectKeywords      []string `json:"direct_keywords"`
	IndirectKeywords    []string `json:"indirect_keywords"`
	IndustryTerms       []string `json:"industry_terms"`
	CompetitiveKeywords []string `json:"competitive_keywords"`
	TrendKeywords       []string `json:"trend_keywords"`
	RegulatoryKeywords  []string `json:"regulatory_keywords"`
}

// Flatten combines all categories into a single list, preserving order and
// dropping duplicates.
func (k *KeywordSet) Flatten() []string {
	var all []string
	seen := make(map[string]bool)
	for _, category := range [][]string{
		k.DirectKeywords,
		k.IndirectKeywords,
		k.IndustryTerms,
		k.CompetitiveKeywords,
		k.TrendKeywords,
		k.RegulatoryKeywords,
	} {
		for _, kw := range category {
			kw = strings.TrimSpace(kw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			all = append(all, kw)
		}
	}
	return all
}

// IdentifyKeywords asks the model for categorized analysis keywords for a
// company, sector and service. The model output must be valid JSON; malformed
// output is an error, never repaired or executed.
func IdentifyKeywords(ctx context.Context, gen TextGenerator, companyName, sectorName, serviceName string) (*KeywordSet, error) {
	prompt := fmt.Sprintf(keywordPrompt, companyName, sectorName, serviceName)

	response, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("keyword generation: %w", err)
	}

	content := cleanJSONResponse(response)

	var keywords KeywordSet
	if err := json.Unmarshal([]byte(content), &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword response: %w, content: %s", err, truncate(content, 500))
	}

	return &keywords, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
