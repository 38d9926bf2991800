package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/dayplan/internal/tasks"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	List       string     `json:"list"`
	Count      int        `json:"count"`
	Completed  int        `json:"completed"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Priority  string `json:"priority"`
	AddedAt   string `json:"added_at"`
	Completed bool   `json:"completed"`
}

func ToJSON(list string, items []tasks.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		List:       list,
		Count:      len(items),
		Tasks:      []jsonTask{},
	}

	for _, t := range items {
		if t.Completed {
			export.Completed++
		}
		export.Tasks = append(export.Tasks, jsonTask{
			ID:        t.ID,
			Name:      t.Name,
			Priority:  t.Priority.String(),
			AddedAt:   t.AddedAt.UTC().Format(time.RFC3339),
			Completed: t.Completed,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
