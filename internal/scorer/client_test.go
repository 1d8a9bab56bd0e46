package scorer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rkarpau/veritext/internal/cache"
	"github.com/rkarpau/veritext/internal/model"
)

func init() {
	// Disable retry sleep in all tests for fast execution
	sleepFunc = func(d time.Duration) {}
}

func testConfig(baseURL string) model.ScorerConfig {
	return model.ScorerConfig{
		BaseURL:     baseURL,
		MaxAttempts: 3,
	}
}

func TestClient_Compare_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/api/compare" {
			t.Errorf("Expected /api/compare, got %s", r.URL.Path)
		}

		var req compareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Pairs) != 1 {
			t.Fatalf("Expected 1 pair, got %d", len(req.Pairs))
		}

		resp := `{"results":[{
			"combined_score":0.82,
			"confidence":77,
			"basic_score":0.6,
			"overlap_percent":64,
			"metrics":{"tfidf":0.81,"euclidean":0.4,"manhattan":0.5,"domain":0.75},
			"keywords":{"side1":["kläger","zahlung"],"side2":["kläger","betrag"],"common":[{"text":"kläger","score":0.99}]}
		}]}`
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{
		{Input: "Der Kläger leistete die Zahlung", Output: "Der Kläger zahlte den Betrag"},
	})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.InputText != "Der Kläger leistete die Zahlung" {
		t.Errorf("InputText not carried over: %q", r.InputText)
	}
	if r.CombinedScore != 0.82 {
		t.Errorf("Expected combined score 0.82, got %v", r.CombinedScore)
	}
	if r.Metrics.TFIDF != 0.81 {
		t.Errorf("Expected tfidf 0.81, got %v", r.Metrics.TFIDF)
	}
	if len(r.Keywords.Common) != 1 || r.Keywords.Common[0].Text != "kläger" {
		t.Errorf("Unexpected common keywords: %+v", r.Keywords.Common)
	}
}

func TestClient_Compare_StringKeywords(t *testing.T) {
	// Older scorer versions emit common keywords as bare strings.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{
			"combined_score":0.5,
			"keywords":{"side1":["a"],"side2":["a"],"common":["a", 42]}
		}]}`))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{{Input: "x", Output: "y"}})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	common := results[0].Keywords.Common
	if len(common) != 1 {
		t.Fatalf("Expected the numeric entry to be dropped, got %+v", common)
	}
	if common[0].Text != "a" || common[0].Score != 1 {
		t.Errorf("Expected string keyword with default score 1, got %+v", common[0])
	}
}

func TestClient_Compare_RepairsInvalidUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// \xff is not valid UTF-8; json.Marshal would reject it, so the
		// payload is built by hand.
		_, _ = w.Write([]byte("{\"results\":[{\"combined_score\":0.3,\"keywords\":{\"side1\":[\"k\xffl\"],\"side2\":[],\"common\":[]}}]}"))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{{Input: "x", Output: "y"}})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	side1 := results[0].Keywords.Side1
	if len(side1) != 1 {
		t.Fatalf("Expected 1 repaired keyword, got %+v", side1)
	}
	if side1[0] != "k�l" {
		t.Errorf("Expected replacement rune repair, got %q", side1[0])
	}
}

func TestClient_Compare_RetriesThenSucceeds(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"combined_score":0.9}]}`))
	}))
	defer server.Close()

	var slept []time.Duration
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleepFunc = func(d time.Duration) {} }()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{{Input: "x", Output: "y"}})

	if atomic.LoadInt64(&calls) != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if len(results) != 1 || results[0].CombinedScore != 0.9 {
		t.Errorf("Expected result from third attempt, got %+v", results)
	}
	if len(slept) != 2 || slept[0] != 2*time.Second || slept[1] != 4*time.Second {
		t.Errorf("Expected exponential backoff [2s 4s], got %v", slept)
	}
}

func TestClient_Compare_AllAttemptsFail(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{{Input: "x", Output: "y"}})

	if atomic.LoadInt64(&calls) != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if results == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result set on final failure, got %d results", len(results))
	}
}

func TestClient_Compare_RetriesAfterTimeout(t *testing.T) {
	// Each attempt carries its own deadline; a hung scorer burns one
	// attempt, not the whole retry budget.
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		// Drain the body so the server's background read can detect the
		// client disconnect and cancel the request context.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	timeoutFunc = func(pairs int) time.Duration { return 50 * time.Millisecond }
	defer func() { timeoutFunc = timeoutFor }()

	var slept []time.Duration
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleepFunc = func(d time.Duration) {} }()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{{Input: "x", Output: "y"}})

	if atomic.LoadInt64(&calls) != 3 {
		t.Errorf("Expected a timed-out attempt to be retried, got %d attempts", calls)
	}
	if len(slept) != 2 || slept[0] != 2*time.Second || slept[1] != 4*time.Second {
		t.Errorf("Expected exponential backoff [2s 4s] between timeouts, got %v", slept)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty result set after exhausted retries, got %v", results)
	}
}

func TestClient_Compare_CallerCancellationStopsRetries(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		// Drain the body so the server's background read can detect the
		// client disconnect and cancel the request context.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	var slept []time.Duration
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleepFunc = func(d time.Duration) {} }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	oldStderr := os.Stderr
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = pw

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(ctx, []Pair{{Input: "x", Output: "y"}})

	os.Stderr = oldStderr
	_ = pw.Close()
	warning, _ := io.ReadAll(pr)

	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("Expected no retries after caller cancellation, got %d attempts", calls)
	}
	if len(slept) != 0 {
		t.Errorf("Expected no backoff after caller cancellation, slept %v", slept)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty result set, got %v", results)
	}
	if !strings.Contains(string(warning), "after 1 attempts") {
		t.Errorf("Warning must report the actual attempt count, got %q", warning)
	}
}

func TestClient_Compare_ShortResponsePadded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"combined_score":0.7}]}`))
	}))
	defer server.Close()

	client := New(testConfig(server.URL), nil, false)
	results := client.Compare(context.Background(), []Pair{
		{Input: "a", Output: "b"},
		{Input: "c", Output: "d"},
	})

	if len(results) != 2 {
		t.Fatalf("Expected padding to 2 results, got %d", len(results))
	}
	if results[1].CombinedScore != 0 {
		t.Errorf("Expected zero-valued padding result, got %+v", results[1])
	}
	if results[1].InputText != "c" || results[1].OutputText != "d" {
		t.Errorf("Padding result must keep pair texts, got %+v", results[1])
	}
}

func TestClient_Compare_CacheHit(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		_, _ = w.Write([]byte(`{"results":[{"combined_score":0.42}]}`))
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	client := New(testConfig(server.URL), store, false)

	pairs := []Pair{{Input: "x", Output: "y"}}
	first := client.Compare(context.Background(), pairs)
	second := client.Compare(context.Background(), pairs)

	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("Expected 1 HTTP call with warm cache, got %d", calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].CombinedScore != 0.42 {
		t.Errorf("Cache round trip lost data: %+v", second)
	}
}

func TestClient_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(testConfig(server.URL), nil, false)
	if !client.TestConnection(context.Background()) {
		t.Error("Expected healthy scorer to report true")
	}

	server.Close()
	if client.TestConnection(context.Background()) {
		t.Error("Expected closed scorer to report false")
	}
}

func TestClient_Compare_EmptyPairs(t *testing.T) {
	client := New(testConfig("http://localhost:1"), nil, false)
	results := client.Compare(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", results)
	}
}

func TestTimeoutFor(t *testing.T) {
	tests := []struct {
		pairs int
		want  time.Duration
	}{
		{1, 300 * time.Second},
		{60, 300 * time.Second},
		{100, 500 * time.Second},
		{240, 1200 * time.Second},
		{10000, 1200 * time.Second},
	}

	for _, tt := range tests {
		if got := timeoutFor(tt.pairs); got != tt.want {
			t.Errorf("timeoutFor(%d) = %v, want %v", tt.pairs, got, tt.want)
		}
	}
}
