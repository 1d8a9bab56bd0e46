package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

// Verifier verifies one payload file. Each call must be session-isolated;
// the batch processor runs calls concurrently.
type Verifier interface {
	VerifyFile(ctx context.Context, path string) (*model.Report, error)
}

// VerifyJob verifies a single payload file.
type VerifyJob struct {
	Path     string
	Verifier Verifier
}

// Execute runs the verification for the job's payload file.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	report, err := j.Verifier.VerifyFile(ctx, j.Path)
	return &FileResult{Path: j.Path, Report: report, Error: err}
}

// FileResult is the outcome of verifying one payload file.
type FileResult struct {
	Path   string
	Report *model.Report
	Error  error
}

func (r *FileResult) GetError() error { return r.Error }

// BatchProcessor verifies many payload files concurrently.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given concurrency.
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{verifier: verifier, concurrency: concurrency}
}

// ProcessFiles verifies the given payload files and returns one result per
// file. Order follows completion, not submission.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, path := range paths {
		pool.Submit(&VerifyJob{Path: path, Verifier: b.verifier})
	}

	results := pool.Wait()
	out := make([]*FileResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*FileResult))
	}
	return out
}

// ProcessList reads a manifest file (one payload path per line) and
// verifies every listed file.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadFileList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read file list: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadFileList reads payload paths from a manifest, one per line. Blank
// lines and #-comments are skipped; duplicates are dropped.
func ReadFileList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
