package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/dayplan/internal/tasks"
)

func ToCSV(list string, items []tasks.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"List", "ID", "Task", "Priority", "Added", "Completed"}); err != nil {
		return err
	}

	for _, t := range items {
		row := []string{
			list,
			t.ID,
			t.Name,
			t.Priority.String(),
			t.AddedAt.Local().Format(tasks.AddedLayout),
			completedLabel(t.Completed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
