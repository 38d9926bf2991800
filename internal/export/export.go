// Package export writes a single task list to CSV, JSON or PDF.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/dayplan/internal/tasks"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatPDF}
}

// Write exports list to path in the given format.
func Write(format Format, list string, items []tasks.Task, path string) error {
	switch format {
	case FormatCSV:
		return ToCSV(list, items, path)
	case FormatJSON:
		return ToJSON(list, items, path)
	case FormatPDF:
		return ToPDF(list, items, path)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// FileName builds dayplan-<list>-<date>.<ext> for an export taken at t.
// Path separators and spaces in the list key are replaced.
func FileName(list string, format Format, t time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, strings.TrimSpace(list))
	return fmt.Sprintf("dayplan-%s-%s.%s", safe, t.Format("20060102-150405"), format)
}

// Path joins dir and FileName.
func Path(dir, list string, format Format, t time.Time) string {
	return filepath.Join(dir, FileName(list, format, t))
}

func completedLabel(done bool) string {
	if done {
		return "Yes"
	}
	return "No"
}
