package ai

import (
	"context"
	"math/rand"
	"strings"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// Override modes force a fixed classification, used for demos and tests when
// no live capability is configured.
const (
	OverrideAuto       = "auto"
	OverrideDamp       = "damp"
	OverrideWiring     = "wiring"
	OverrideStructural = "structural"
	OverrideOK         = "ok"
)

var overrideResults = map[string]domain.Classification{
	OverrideDamp: {
		DefectType: domain.DefectMoisture, DefectName: "damped wall", Severity: domain.SeverityCritical,
		Confidence: 0.99, Description: "Simulated: Detected severe dampness and potential mold.",
		Action: "Urgent: Waterproofing required immediately.",
	},
	OverrideWiring: {
		DefectType: domain.DefectElectrical, DefectName: "exposed wiring", Severity: domain.SeverityCritical,
		Confidence: 0.99, Description: "Simulated: Exposed electrical wiring detected.",
		Action: "Danger: Isolate circuit and call electrician.",
	},
	OverrideStructural: {
		DefectType: domain.DefectStructural, DefectName: "structural cracks", Severity: domain.SeverityHigh,
		Confidence: 0.99, Description: "Simulated: Major structural cracking detected.",
		Action: "Consult structural engineer.",
	},
	OverrideOK: {
		DefectType: domain.DefectNone, DefectName: "ok", Severity: domain.SeverityOK,
		Confidence: 0.99, Description: "Simulated: No defects found.", Action: "None",
	},
}

// Mock implements every AI capability without a network. Classification uses
// the override when set, then filename keywords, then a weighted random draw
// (defects are favored 90/10 so demos have something to show).
type Mock struct {
	override string
	rng      *rand.Rand
}

func NewMock(override string) *Mock { return &Mock{override: override} }

// WithRand fixes the random source, for reproducible tests.
func (m *Mock) WithRand(r *rand.Rand) *Mock { m.rng = r; return m }

func (m *Mock) Classify(_ context.Context, imageURL string) (domain.Classification, error) {
	if m.override != "" && m.override != OverrideAuto {
		if c, ok := overrideResults[m.override]; ok {
			return c, nil
		}
	}
	return m.heuristic(imageURL), nil
}

func (m *Mock) heuristic(imageURL string) domain.Classification {
	name := strings.ToLower(imageURL)
	switch {
	case containsAny(name, "damp", "wet", "mold", "water"):
		return domain.Classification{DefectType: domain.DefectMoisture, DefectName: "damped wall", Severity: domain.SeverityCritical, Confidence: 0.96, Description: "Detected dampness.", Action: "Treat mold."}
	case containsAny(name, "wire", "cable", "electric"):
		return domain.Classification{DefectType: domain.DefectElectrical, DefectName: "exposed wiring", Severity: domain.SeverityCritical, Confidence: 0.98, Description: "Exposed wiring.", Action: "Call electrician."}
	case containsAny(name, "crack", "split"):
		return domain.Classification{DefectType: domain.DefectStructural, DefectName: "cracks", Severity: domain.SeverityHigh, Confidence: 0.92, Description: "Structural cracks.", Action: "Engineer check."}
	}

	outcomes := []domain.Classification{
		{DefectType: domain.DefectMoisture, DefectName: "damped wall", Severity: domain.SeverityCritical, Confidence: 0.9, Description: "Wall saturation detected.", Action: "Waterproof now."},
		{DefectType: domain.DefectElectrical, DefectName: "exposed wiring", Severity: domain.SeverityCritical, Confidence: 0.9, Description: "Dangerous wiring detected.", Action: "Fix wiring."},
		{DefectType: domain.DefectStructural, DefectName: "structural cracks", Severity: domain.SeverityHigh, Confidence: 0.9, Description: "Wall fractures detected.", Action: "Monitor cracks."},
		{DefectType: domain.DefectNone, DefectName: "ok", Severity: domain.SeverityOK, Confidence: 0.9, Description: "No defects.", Action: "None."},
	}
	weights := []int{30, 30, 30, 10}
	return outcomes[weightedPick(m.rng, weights)]
}

func (m *Mock) AnalyzeDocument(_ context.Context, _ string) (domain.DocumentAnalysis, error) {
	return domain.DocumentAnalysis{
		Summary:     "Simulated Analysis: The document appears to clearly outline structural and moisture issues. It recommends immediate waterproofing.",
		Suggestions: "- Apply hydrophobic coating to exterior walls.\n- Replace corroded piping in the utility area.\n- verify load-bearing columns.",
	}, nil
}

func (m *Mock) Compare(_ context.Context, _, _ string) (domain.Comparison, error) {
	return domain.Comparison{
		SimilarityScore: 85,
		Matches:         []string{"Damp in Master Bedroom verified", "Kitchen wiring issues verified"},
		Discrepancies:   []string{"AI detected hairline cracks in Living Room (Not in Report)", "Inspector notes roof tile damage (AI did not see roof)"},
		Summary:         "High agreement on major interior issues. AI found minor wall cracks missed by report. Report includes exterior roof analysis not covered by AI images.",
	}, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func weightedPick(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	var n int
	if rng != nil {
		n = rng.Intn(total)
	} else {
		n = rand.Intn(total)
	}
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}
