package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/observability"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// Capability bundles the three AI contracts behind one value so callers can
// wire a single dependency.
type Capability interface {
	domain.Classifier
	domain.DocumentAnalyzer
	domain.Comparator
}

// Fallback degrades a live capability to the mock on any error. A flaky or
// unconfigured upstream must never stall an inspection in progress.
type Fallback struct {
	live Capability
	mock *Mock
}

func WithFallback(live Capability, mock *Mock) *Fallback {
	return &Fallback{live: live, mock: mock}
}

// FromConfig returns the live capability wrapped in a mock fallback when an
// API key is set, or the bare mock otherwise.
func FromConfig(apiKey, model, override string, rps int) (Capability, error) {
	mock := NewMock(override)
	if apiKey == "" {
		log.Info().Msg("AI capability: no API key, running in mock mode")
		return mock, nil
	}
	live, err := NewClient(apiKey, model, rps)
	if err != nil {
		return nil, err
	}
	return WithFallback(live, mock), nil
}

func (f *Fallback) Classify(ctx context.Context, imageURL string) (domain.Classification, error) {
	start := time.Now()
	cls, err := f.live.Classify(ctx, imageURL)
	if err != nil {
		log.Warn().Err(err).Str("image_url", imageURL).Msg("live classification failed, using mock")
		observability.ObserveAI("classify", "fallback", time.Since(start))
		return f.mock.Classify(ctx, imageURL)
	}
	observability.ObserveAI("classify", "ok", time.Since(start))
	return cls, nil
}

func (f *Fallback) AnalyzeDocument(ctx context.Context, text string) (domain.DocumentAnalysis, error) {
	start := time.Now()
	res, err := f.live.AnalyzeDocument(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("live document analysis failed, using mock")
		observability.ObserveAI("analyze_document", "fallback", time.Since(start))
		return f.mock.AnalyzeDocument(ctx, text)
	}
	observability.ObserveAI("analyze_document", "ok", time.Since(start))
	return res, nil
}

func (f *Fallback) Compare(ctx context.Context, aiFindings, reportText string) (domain.Comparison, error) {
	start := time.Now()
	cmp, err := f.live.Compare(ctx, aiFindings, reportText)
	if err != nil {
		log.Warn().Err(err).Msg("live comparison failed, using mock")
		observability.ObserveAI("compare", "fallback", time.Since(start))
		return f.mock.Compare(ctx, aiFindings, reportText)
	}
	observability.ObserveAI("compare", "ok", time.Since(start))
	return cmp, nil
}
