package dialect

import "sql-doctest/internal/model"

// Markdown treats the whole document as one region: top-level fences are
// recognized directly by the block extractor, no marker required.
type Markdown struct{}

func (d *Markdown) Scan(file string, text string) ([]model.Region, []model.Diagnostic) {
	var diags []model.Diagnostic

	body, fenceDiag := truncateOpenFence(file, 1, text)
	if fenceDiag != nil {
		diags = append(diags, *fenceDiag)
	}
	if body == "" {
		return nil, diags
	}

	region := model.Region{
		Location: model.Location{FilePath: file, Line: 1},
		Kind:     model.KindFencedDocument,
		Start:    0,
		End:      len(body),
		Text:     body,
	}
	return []model.Region{region}, diags
}
