package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"taskmaster/internal/model"
)

// CSVHeader is the fixed export header; the column order is part of the
// export contract.
const CSVHeader = "Title,Category,Status,Deadline,Created Date,Important"

// ExportCSV writes the full, unfiltered list as CSV and returns the number
// of task rows written. An empty list writes nothing and returns 0 so the
// caller can show an informational notice instead of an empty download.
// Every field is double-quoted, with embedded quotes doubled.
func (s *TaskService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	_, tasks, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for i, t := range tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(csvRow(t))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(tasks), nil
}

func csvRow(t model.Task) string {
	status := "Pending"
	if t.Completed {
		status = "Completed"
	}
	important := "No"
	if t.Important {
		important = "Yes"
	}
	fields := []string{t.Title, t.Category, status, t.Deadline, t.CreatedAt, important}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
