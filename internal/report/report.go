package report

import (
	"fmt"
	"io"

	"github.com/glint-dev/glint/internal/analysis"
)

// Writer renders an analysis result in a specific format.
type Writer interface {
	Write(w io.Writer, result *analysis.Result) error
}

// Get returns a writer for the specified format.
func Get(format string) (Writer, error) {
	switch format {
	case "sarif":
		return &SARIFWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}
