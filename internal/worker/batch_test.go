package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rkarpau/veritext/internal/model"
)

// countingVerifier records how many files it verified.
type countingVerifier struct {
	calls int64
	fail  map[string]bool
}

func (v *countingVerifier) VerifyFile(ctx context.Context, path string) (*model.Report, error) {
	atomic.AddInt64(&v.calls, 1)
	if v.fail[path] {
		return nil, errors.New("verification failed")
	}
	return &model.Report{Subject: path, Status: model.StatusVerified}, nil
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	verifier := &countingVerifier{fail: map[string]bool{"b.yaml": true}}
	processor := NewBatchProcessor(verifier, 3)

	results := processor.ProcessFiles(context.Background(), []string{"a.yaml", "b.yaml", "c.yaml"})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if atomic.LoadInt64(&verifier.calls) != 3 {
		t.Errorf("Expected 3 verifications, got %d", verifier.calls)
	}

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
			if r.Path != "b.yaml" {
				t.Errorf("Wrong file failed: %s", r.Path)
			}
		} else if r.Report == nil || r.Report.Subject != r.Path {
			t.Errorf("Report missing or mismatched for %s", r.Path)
		}
	}
	if failed != 1 {
		t.Errorf("Expected 1 failure, got %d", failed)
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	processor := NewBatchProcessor(&countingVerifier{}, 2)
	results := processor.ProcessFiles(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestReadFileList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	content := "a.yaml\n\n# comment\nb.yaml\na.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	paths, err := ReadFileList(path)
	if err != nil {
		t.Fatalf("ReadFileList: %v", err)
	}
	if len(paths) != 2 || paths[0] != "a.yaml" || paths[1] != "b.yaml" {
		t.Errorf("Expected deduplicated [a.yaml b.yaml], got %v", paths)
	}
}

func TestPool_ShutdownStopsWork(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Shutdown()

	// Submissions after shutdown must not block or panic.
	pool.Submit(&VerifyJob{Path: "x", Verifier: &countingVerifier{}})
}
