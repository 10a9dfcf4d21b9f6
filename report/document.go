package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mbolis/pie-reports/model"
)

// Document is a finished report.
type Document struct {
	ID       string
	Filename string
	Kind     string
	Variant  Variant
	Pages    int
	data     []byte
}

// Bytes returns the raw document.
func (d *Document) Bytes() []byte {
	return d.data
}

// Save writes the document into dir under its filename and returns the
// full path.
func (d *Document) Save(dir string) (string, error) {
	path := filepath.Join(dir, d.Filename)
	if err := os.WriteFile(path, d.data, 0o644); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return path, nil
}

// Filename derives {kind}-{variant}[-{code}]-{yyyy-mm-dd}.pdf.
func Filename(kind string, variant Variant, code string, date time.Time) string {
	parts := []string{kind, string(variant)}
	if code = model.CleanCode(code); code != "" {
		parts = append(parts, code)
	}
	parts = append(parts, date.Format("2006-01-02"))
	return strings.Join(parts, "-") + ".pdf"
}
