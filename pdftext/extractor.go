package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts the plain text of a PDF file, one physical text row per
// line, pages separated by blank lines. The output is Unicode-normalized and
// stripped of non-printable characters, but no structural interpretation
// happens here; that is the segmenter's job.
func ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", pageNo, path, err)
		}

		for _, row := range rows {
			var line strings.Builder
			for _, text := range row.Content {
				line.WriteString(text.S)
			}
			sb.WriteString(line.String())
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return Clean(sb.String()), nil
}
