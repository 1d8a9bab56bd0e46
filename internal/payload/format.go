// Package payload loads verification-input files: the labeled content
// blocks plus candidate outputs a session consumes.
package payload

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rkarpau/veritext/internal/model"
)

// Format decodes one on-disk payload representation.
type Format interface {
	// Name returns the format name
	Name() string

	// CanHandle checks whether this format should decode the given file
	CanHandle(path string, data []byte) bool

	// Decode parses the raw file into a verification input
	Decode(data []byte) (model.VerificationInput, error)
}

// Registry picks the right format for a payload file, falling back to YAML.
type Registry struct {
	formats  []Format
	fallback Format
}

// NewRegistry creates a registry with the built-in formats.
func NewRegistry() *Registry {
	return &Registry{
		formats:  []Format{&JSONFormat{}, &YAMLFormat{}},
		fallback: &YAMLFormat{},
	}
}

// Find returns the format for the given file.
func (r *Registry) Find(path string, data []byte) Format {
	for _, f := range r.formats {
		if f.CanHandle(path, data) {
			return f
		}
	}
	return r.fallback
}

// YAMLFormat decodes .yaml/.yml payloads.
type YAMLFormat struct{}

func (YAMLFormat) Name() string { return "yaml" }

func (YAMLFormat) CanHandle(path string, data []byte) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

func (YAMLFormat) Decode(data []byte) (model.VerificationInput, error) {
	var in model.VerificationInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse yaml payload: %w", err)
	}
	return in, nil
}

// JSONFormat decodes .json payloads and anything starting with a brace.
type JSONFormat struct{}

func (JSONFormat) Name() string { return "json" }

func (JSONFormat) CanHandle(path string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

func (JSONFormat) Decode(data []byte) (model.VerificationInput, error) {
	var in model.VerificationInput
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse json payload: %w", err)
	}
	return in, nil
}
