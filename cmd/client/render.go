// cmd/client/render.go
package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/view"
)

func statusTitle(s models.Status) string {
	switch s {
	case models.StatusPending:
		return "Pending"
	case models.StatusInProgress:
		return "In Progress"
	case models.StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

func dueString(t *models.Task) string {
	if d := models.FormatDate(t.DueDate); d != nil {
		return *d
	}
	return "-"
}

func renderBoard(w io.Writer, columns []view.Column) {
	total := 0
	for _, c := range columns {
		total += c.Count
	}
	fmt.Fprintf(w, "%d task(s)\n", total)

	for _, c := range columns {
		fmt.Fprintf(w, "\n%s (%d)\n", statusTitle(c.Status), c.Count)
		if c.Count == 0 {
			fmt.Fprintln(w, "  no tasks")
			continue
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"ID", "Title", "Priority", "Due", "Updated"})
		table.SetAutoWrapText(false)
		for _, t := range c.Tasks {
			table.Append([]string{
				t.ID,
				t.Title,
				string(t.Priority),
				dueString(t),
				t.UpdatedAt.Local().Format(time.DateTime),
			})
		}
		table.Render()
	}
}

func renderTask(w io.Writer, t *models.Task) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"ID", t.ID},
		{"Title", t.Title},
		{"Description", t.Description},
		{"Status", statusTitle(t.Status)},
		{"Priority", string(t.Priority)},
		{"Due", dueString(t)},
		{"Created", t.CreatedAt.Local().Format(time.DateTime)},
		{"Updated", t.UpdatedAt.Local().Format(time.DateTime)},
	})
	table.Render()
}
