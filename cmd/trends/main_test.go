package main

import (
	"context"
	"strings"
	"testing"

	"marketlens/internal/model"
)

type fakeGenerator struct {
	response string
	prompt   string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, nil
}

type fakeProfiles struct {
	confirmed *model.ExtractedProfile
	latest    *model.ExtractedProfile
}

func (f *fakeProfiles) GetConfirmedBySession(sessionID string) (*model.ExtractedProfile, error) {
	return f.confirmed, nil
}

func (f *fakeProfiles) GetLatestBySession(sessionID string) (*model.ExtractedProfile, error) {
	return f.latest, nil
}

const keywordResponse = `{"direct_keywords":["PayFast","online payments"],"industry_terms":["PCI compliance"]}`

func TestDeriveKeywordsPrefersConfirmedProfile(t *testing.T) {
	gen := &fakeGenerator{response: keywordResponse}
	profiles := &fakeProfiles{
		confirmed: &model.ExtractedProfile{Fields: map[string]any{
			"company_name":       "PayFast",
			"business_domain":    "fintech",
			"product_or_service": "payment gateway",
		}},
		latest: &model.ExtractedProfile{Fields: map[string]any{
			"company_name": "Draftmark",
		}},
	}

	keywords, err := deriveKeywords(context.Background(), gen, profiles, "s1")
	if err != nil {
		t.Fatalf("deriveKeywords: %v", err)
	}

	if len(keywords) != 3 {
		t.Fatalf("got %d keywords %v, want 3", len(keywords), keywords)
	}
	if !strings.Contains(gen.prompt, "PayFast") || strings.Contains(gen.prompt, "Draftmark") {
		t.Errorf("prompt should be built from the confirmed profile, got %q", gen.prompt)
	}
}

func TestDeriveKeywordsFallsBackToLatest(t *testing.T) {
	gen := &fakeGenerator{response: keywordResponse}
	profiles := &fakeProfiles{
		latest: &model.ExtractedProfile{Fields: map[string]any{
			"company_name":    "Draftmark",
			"business_domain": "publishing",
		}},
	}

	keywords, err := deriveKeywords(context.Background(), gen, profiles, "s1")
	if err != nil {
		t.Fatalf("deriveKeywords: %v", err)
	}

	if len(keywords) == 0 {
		t.Fatal("expected keywords from the latest profile")
	}
	if !strings.Contains(gen.prompt, "Draftmark") {
		t.Errorf("prompt should be built from the latest profile, got %q", gen.prompt)
	}
}

func TestDeriveKeywordsNoProfile(t *testing.T) {
	gen := &fakeGenerator{response: keywordResponse}

	keywords, err := deriveKeywords(context.Background(), gen, &fakeProfiles{}, "s1")
	if err != nil {
		t.Fatalf("deriveKeywords: %v", err)
	}
	if keywords != nil {
		t.Errorf("got %v, want no keywords for an unknown session", keywords)
	}
	if gen.prompt != "" {
		t.Error("no profile should mean no model call")
	}
}
