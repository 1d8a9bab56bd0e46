package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rkarpau/veritext/internal/model"
)

func sampleReport() model.Report {
	return model.Report{
		Subject: "Testfall",
		Status:  model.StatusVerified,
		Runs: []model.RunReport{{
			Rank:      1,
			RunNumber: 2,
			Scores: model.ScoreRecord{
				OverallWeightedContentScore: 8.4,
				OverallCoveragePercentage:   90,
			},
			Missing: []model.Fragment{
				model.NewFragment(model.TypeDate, model.SideInput, model.LocMetadata, "14.03.2023"),
			},
		}},
	}
}

func TestNewProvider_DisabledByDefault(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p != nil {
		t.Errorf("Expected nil provider for empty config, got %T", p)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: "carrierpigeon"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestBuildPrompt_ContainsFindings(t *testing.T) {
	prompt := BuildPrompt(sampleReport())

	for _, want := range []string{"Testfall", "8.400", "90.0%", "14.03.2023", "never asserts truth"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_AllRunsFailed(t *testing.T) {
	report := model.Report{
		Subject:    "alles fehlgeschlagen",
		Status:     model.StatusVerificationFailed,
		FailedRuns: []model.Run{{Number: 1}, {Number: 2}},
	}
	prompt := BuildPrompt(report)
	if !strings.Contains(prompt, "All 2 runs failed") {
		t.Errorf("Prompt missing failure note: %q", prompt)
	}
}

func TestOllamaProvider_Summarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			_, _ = w.Write([]byte(`{"model":"llama3.1:8b","response":"Die Abdeckung liegt bei 90 Prozent.","done":true,"eval_count":12}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(model.LLMConfig{BaseURL: server.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Fatal("Expected provider to be available")
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Report: sampleReport()})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if resp.Summary != "Die Abdeckung liegt bei 90 Prozent." {
		t.Errorf("Summary wrong: %q", resp.Summary)
	}
	if resp.Model != "llama3.1:8b" {
		t.Errorf("Model wrong: %q", resp.Model)
	}
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(model.LLMConfig{})
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}
	if _, err := provider.Summarize(context.Background(), SummarizeRequest{}); err == nil {
		t.Error("Expected error without a model name")
	}
}

// scriptedProvider fakes a provider for summarizer tests.
type scriptedProvider struct {
	available bool
	summary   string
	err       error
}

func (p *scriptedProvider) Name() string                         { return "scripted" }
func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return p.available }
func (p *scriptedProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &SummarizeResponse{Summary: p.summary, Model: "m"}, nil
}

func TestSummarizer_Disabled(t *testing.T) {
	report := sampleReport()
	NewSummarizer(nil, model.LLMConfig{}).Summarize(context.Background(), &report)
	if report.LLM != nil {
		t.Errorf("Disabled summarizer must not touch the report, got %+v", report.LLM)
	}
}

func TestSummarizer_Success(t *testing.T) {
	report := sampleReport()
	provider := &scriptedProvider{available: true, summary: "Zusammenfassung."}

	NewSummarizer(provider, model.LLMConfig{}).Summarize(context.Background(), &report)

	if report.LLM == nil || report.LLM.SummaryMD != "Zusammenfassung." {
		t.Errorf("Summary not attached: %+v", report.LLM)
	}
	if report.Status != model.StatusVerified || len(report.Runs) != 1 {
		t.Error("Summarizer must not alter verification results")
	}
}

func TestSummarizer_FailureDegradesToWarning(t *testing.T) {
	report := sampleReport()
	provider := &scriptedProvider{available: true, err: errors.New("boom")}

	NewSummarizer(provider, model.LLMConfig{}).Summarize(context.Background(), &report)

	if report.LLM == nil || len(report.LLM.Warnings) != 1 {
		t.Fatalf("Expected a warning, got %+v", report.LLM)
	}
	if report.LLM.SummaryMD != "" {
		t.Errorf("No summary expected on failure, got %q", report.LLM.SummaryMD)
	}
}

func TestSummarizer_UnavailableProvider(t *testing.T) {
	report := sampleReport()
	provider := &scriptedProvider{available: false}

	NewSummarizer(provider, model.LLMConfig{}).Summarize(context.Background(), &report)

	if report.LLM == nil || len(report.LLM.Warnings) != 1 {
		t.Fatalf("Expected unavailability warning, got %+v", report.LLM)
	}
}
