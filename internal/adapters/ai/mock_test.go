package ai

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

func TestMockOverrides(t *testing.T) {
	cases := []struct {
		override string
		wantType domain.DefectCategory
		wantSev  domain.Severity
	}{
		{OverrideDamp, domain.DefectMoisture, domain.SeverityCritical},
		{OverrideWiring, domain.DefectElectrical, domain.SeverityCritical},
		{OverrideStructural, domain.DefectStructural, domain.SeverityHigh},
		{OverrideOK, domain.DefectNone, domain.SeverityOK},
	}
	for _, tc := range cases {
		m := NewMock(tc.override)
		cls, err := m.Classify(context.Background(), "https://bucket/any.jpg")
		if err != nil {
			t.Fatalf("%s: %v", tc.override, err)
		}
		if cls.DefectType != tc.wantType || cls.Severity != tc.wantSev {
			t.Fatalf("%s: got %s/%s, want %s/%s", tc.override, cls.DefectType, cls.Severity, tc.wantType, tc.wantSev)
		}
		if cls.Confidence != 0.99 {
			t.Fatalf("%s: confidence %v", tc.override, cls.Confidence)
		}
	}
}

func TestMockFilenameHeuristics(t *testing.T) {
	m := NewMock(OverrideAuto)
	cases := []struct {
		url      string
		wantType domain.DefectCategory
		wantSev  domain.Severity
		wantConf float64
	}{
		{"https://bucket/bathroom_damp_wall.jpg", domain.DefectMoisture, domain.SeverityCritical, 0.96},
		{"https://bucket/WATER-stain.png", domain.DefectMoisture, domain.SeverityCritical, 0.96},
		{"https://bucket/kitchen-wire.jpg", domain.DefectElectrical, domain.SeverityCritical, 0.98},
		{"https://bucket/ceiling_crack.jpg", domain.DefectStructural, domain.SeverityHigh, 0.92},
	}
	for _, tc := range cases {
		cls, err := m.Classify(context.Background(), tc.url)
		if err != nil {
			t.Fatal(err)
		}
		if cls.DefectType != tc.wantType || cls.Severity != tc.wantSev || cls.Confidence != tc.wantConf {
			t.Fatalf("%s: got %s/%s/%v", tc.url, cls.DefectType, cls.Severity, cls.Confidence)
		}
	}
}

func TestMockRandomDrawIsWeighted(t *testing.T) {
	m := NewMock(OverrideAuto).WithRand(rand.New(rand.NewSource(7)))
	counts := map[domain.DefectCategory]int{}
	for i := 0; i < 400; i++ {
		cls, err := m.Classify(context.Background(), "https://bucket/room.jpg")
		if err != nil {
			t.Fatal(err)
		}
		if !cls.Severity.Valid() {
			t.Fatalf("invalid severity %q", cls.Severity)
		}
		counts[cls.DefectType]++
	}
	// clean rooms are the 10% bucket; defects should dominate
	if counts[domain.DefectNone] >= counts[domain.DefectMoisture] {
		t.Fatalf("expected defects to outweigh clean draws, got %v", counts)
	}
	if counts[domain.DefectNone] == 0 {
		t.Fatal("expected at least one clean draw in 400 samples")
	}
}

func TestMockDocumentAndComparison(t *testing.T) {
	m := NewMock(OverrideAuto)

	doc, err := m.AnalyzeDocument(context.Background(), "some report text")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Summary == "" || doc.Suggestions == "" {
		t.Fatal("expected canned summary and suggestions")
	}

	cmp, err := m.Compare(context.Background(), "findings", "report")
	if err != nil {
		t.Fatal(err)
	}
	if cmp.SimilarityScore != 85 {
		t.Fatalf("similarity = %d, want 85", cmp.SimilarityScore)
	}
	if len(cmp.Matches) != 2 || len(cmp.Discrepancies) != 2 {
		t.Fatalf("matches=%d discrepancies=%d", len(cmp.Matches), len(cmp.Discrepancies))
	}
}

type failingCapability struct{}

func (failingCapability) Classify(context.Context, string) (domain.Classification, error) {
	return domain.Classification{}, errors.New("upstream down")
}
func (failingCapability) AnalyzeDocument(context.Context, string) (domain.DocumentAnalysis, error) {
	return domain.DocumentAnalysis{}, errors.New("upstream down")
}
func (failingCapability) Compare(context.Context, string, string) (domain.Comparison, error) {
	return domain.Comparison{}, errors.New("upstream down")
}

func TestFallbackDegradesToMock(t *testing.T) {
	f := WithFallback(failingCapability{}, NewMock(OverrideDamp))

	cls, err := f.Classify(context.Background(), "https://bucket/room.jpg")
	if err != nil {
		t.Fatalf("fallback should absorb the error: %v", err)
	}
	if cls.DefectType != domain.DefectMoisture {
		t.Fatalf("expected mock override result, got %s", cls.DefectType)
	}

	if _, err := f.AnalyzeDocument(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	cmp, err := f.Compare(context.Background(), "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if cmp.SimilarityScore != 85 {
		t.Fatalf("similarity = %d", cmp.SimilarityScore)
	}
}

func TestFromConfigWithoutKeyUsesMock(t *testing.T) {
	c, err := FromConfig("", "", OverrideOK, 0)
	if err != nil {
		t.Fatal(err)
	}
	cls, err := c.Classify(context.Background(), "https://bucket/room.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if cls.DefectType != domain.DefectNone {
		t.Fatalf("expected clean override, got %s", cls.DefectType)
	}
}
