package verify

import (
	"context"
	"testing"
	"time"

	"github.com/rkarpau/veritext/internal/match"
	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/scorer"
)

// offlineComparer simulates a scorer that never answers, so statement
// fragments end up not_processed and the definitive types drive the scores.
type offlineComparer struct{}

func (offlineComparer) TestConnection(ctx context.Context) bool { return false }

func (offlineComparer) Compare(ctx context.Context, pairs []scorer.Pair) []model.ComparisonResult {
	return []model.ComparisonResult{}
}

func testSession(t *testing.T, cfg model.VerificationConfig) *Session {
	t.Helper()
	matcher := match.NewMatcher(offlineComparer{}, model.WeakMatch, false)
	return NewSession(cfg, matcher, nil, false)
}

func defaultVerificationConfig() model.VerificationConfig {
	return model.VerificationConfig{
		MaxRuns:      5,
		RunBudget:    time.Minute,
		MinMatchTier: model.WeakMatch.String(),
	}
}

func TestSession_DateDetectedAcrossLocales(t *testing.T) {
	session := testSession(t, defaultVerificationConfig())
	defer session.Close()

	in := model.VerificationInput{
		Subject: "locale date",
		Blocks: []model.ContentBlock{
			{Location: model.LocMetadata, Side: model.SideInput, Fields: map[string]string{
				"Stichtag": "14. März 2023",
			}},
		},
		Candidates: []string{"Das Urteil erging am 14.03.2023 und wurde den Parteien zugestellt."},
	}

	report, err := session.Verify(context.Background(), in)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Status != model.StatusVerified {
		t.Fatalf("Expected verified status, got %s", report.Status)
	}

	best := report.BestRun()
	if best == nil {
		t.Fatal("Expected a best run")
	}

	var date *model.Fragment
	for i, f := range best.InputFragments {
		if f.Type == model.TypeDate {
			date = &best.InputFragments[i]
			break
		}
	}
	if date == nil {
		t.Fatal("Expected a date fragment on the input side")
	}
	if date.Status != model.StatusDetected {
		t.Errorf("Expected input date detected, got %s", date.Status)
	}
	found := false
	for _, loc := range date.DetectedIn {
		if loc == model.LocGeneratedOutput {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected detected_in to contain generated-output, got %v", date.DetectedIn)
	}
}

func TestSession_RunsRankedByScore(t *testing.T) {
	session := testSession(t, defaultVerificationConfig())
	defer session.Close()

	in := model.VerificationInput{
		Subject: "ranking",
		Blocks: []model.ContentBlock{
			{Location: model.LocChapterBrief, Side: model.SideInput, Text: "Verhandlung am 14.03.2023 vor dem Landgericht."},
		},
		Candidates: []string{
			// The wrong date scores lower than the faithful candidate.
			"Die Verhandlung fand am 15.03.2021 vor dem Landgericht statt.",
			"Die Verhandlung fand am 14.03.2023 vor dem Landgericht statt.",
		},
	}

	report, err := session.Verify(context.Background(), in)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Runs) != 2 {
		t.Fatalf("Expected 2 ranked runs, got %d", len(report.Runs))
	}

	best, second := report.Runs[0], report.Runs[1]
	if best.Rank != 1 || second.Rank != 2 {
		t.Errorf("Ranks wrong: %d, %d", best.Rank, second.Rank)
	}
	if best.RunNumber != 2 {
		t.Errorf("Expected faithful candidate (run 2) to rank first, got run %d", best.RunNumber)
	}
	if second.Scores.OverallWeightedContentScore > best.Scores.OverallWeightedContentScore {
		t.Errorf("Ranking violates score order: %v > %v",
			second.Scores.OverallWeightedContentScore, best.Scores.OverallWeightedContentScore)
	}
	if best.Document == nil {
		t.Error("Expected a corrected document on the best run")
	}
}

func TestSession_AllRunsFailed(t *testing.T) {
	session := testSession(t, defaultVerificationConfig())
	defer session.Close()

	in := model.VerificationInput{
		Subject: "nothing verifiable",
		Blocks: []model.ContentBlock{
			{Location: model.LocMetadata, Side: model.SideInput, Text: "?! ..."},
		},
		Candidates: []string{"Kandidat eins mit Datum 14.03.2023 und weiterem Inhalt."},
	}

	report, err := session.Verify(context.Background(), in)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Status != model.StatusVerificationFailed {
		t.Fatalf("Expected verification_failed, got %s", report.Status)
	}
	if len(report.RawCandidates) != 1 || report.RawCandidates[0] != in.Candidates[0] {
		t.Errorf("Raw candidates must be returned on total failure, got %v", report.RawCandidates)
	}
	if len(report.FailedRuns) != 1 {
		t.Fatalf("Expected 1 failed run, got %d", len(report.FailedRuns))
	}
	if report.FailedRuns[0].Error != ErrNoInputFragments.Error() {
		t.Errorf("Expected no-input-fragments error, got %q", report.FailedRuns[0].Error)
	}
}

func TestSession_MaxRunsBudget(t *testing.T) {
	cfg := defaultVerificationConfig()
	cfg.MaxRuns = 1
	session := testSession(t, cfg)
	defer session.Close()

	in := model.VerificationInput{
		Subject: "budget",
		Blocks: []model.ContentBlock{
			{Location: model.LocChapterBrief, Side: model.SideInput, Text: "Zahlung von 23.298,00 EUR am 14.03.2023 fällig."},
		},
		Candidates: []string{
			"Die Zahlung von 23.298,00 EUR war am 14.03.2023 fällig.",
			"Die Zahlung von 23.298,00 EUR war am 14.03.2023 fällig.",
		},
	}

	report, err := session.Verify(context.Background(), in)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(report.Runs) != 1 {
		t.Errorf("Expected single run under budget 1, got %d", len(report.Runs))
	}
}

func TestSession_Cancellation(t *testing.T) {
	session := testSession(t, defaultVerificationConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := model.VerificationInput{
		Subject: "cancelled",
		Blocks: []model.ContentBlock{
			{Location: model.LocMetadata, Side: model.SideInput, Text: "Stichtag 14.03.2023"},
		},
		Candidates: []string{"Am 14.03.2023."},
	}

	if _, err := session.Verify(ctx, in); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

func TestSession_InvalidPayload(t *testing.T) {
	session := testSession(t, defaultVerificationConfig())

	if _, err := session.Verify(context.Background(), model.VerificationInput{}); err == nil {
		t.Error("Expected error for empty payload")
	}
}
