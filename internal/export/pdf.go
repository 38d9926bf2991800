package export

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/sadopc/dayplan/internal/tasks"
)

// Column widths in mm; they add up to the A4 content width.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Task", 90},
	{"Priority", 25},
	{"Added", 45},
	{"Completed", 30},
}

func ToPDF(list string, items []tasks.Task, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr("Task list: "+list))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	done := 0
	for _, t := range items {
		if t.Completed {
			done++
		}
		cells := []string{
			tr(t.Name),
			t.Priority.String(),
			t.AddedAt.Local().Format(tasks.AddedLayout),
			completedLabel(t.Completed),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(40, 6, fmt.Sprintf("%d of %d tasks completed", done, len(items)))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf file: %w", err)
	}
	defer f.Close()

	if err := pdf.Output(f); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}
