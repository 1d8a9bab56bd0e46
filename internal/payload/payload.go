package payload

import (
	"fmt"
	"os"

	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/util"
)

// Load reads and decodes a payload file, strips markup from its content,
// and validates the result.
func Load(path string) (model.VerificationInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.VerificationInput{}, fmt.Errorf("read payload: %w", err)
	}

	format := NewRegistry().Find(path, data)
	in, err := format.Decode(data)
	if err != nil {
		return model.VerificationInput{}, err
	}

	Sanitize(&in)

	if err := in.Validate(); err != nil {
		return model.VerificationInput{}, fmt.Errorf("invalid payload %s: %w", path, err)
	}
	return in, nil
}

// Sanitize strips HTML markup from every text field of the payload. LLM
// pipelines occasionally hand over rendered rich text; extraction needs the
// visible text only.
func Sanitize(in *model.VerificationInput) {
	for i := range in.Blocks {
		b := &in.Blocks[i]
		if b.Side == "" {
			b.Side = model.SideInput
		}
		b.Text = stripMarkup(b.Text)
		for k, v := range b.Fields {
			b.Fields[k] = stripMarkup(v)
		}
		for k, v := range b.Chapters {
			b.Chapters[k] = stripMarkup(v)
		}
	}
	for i, c := range in.Candidates {
		in.Candidates[i] = stripMarkup(c)
	}
}

func stripMarkup(s string) string {
	if !util.LooksLikeHTML(s) {
		return s
	}
	return util.VisibleText(s)
}
