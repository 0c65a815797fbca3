package todo

import (
	"fmt"
	"strings"
)

// timestampLayout matches the minute-precision stamps shown next to tasks.
const timestampLayout = "2006-01-02T15:04"

// EmptyList is the rendering of a list with no tasks.
const EmptyList = "No tasks in the todo list."

// StatusIcon returns the glyph shown for a status.
func StatusIcon(s Status) string {
	switch s {
	case InProgress:
		return "◐"
	case Completed:
		return "●"
	default:
		return "○"
	}
}

// Render formats tasks as markdown grouped into in-progress, pending and
// completed sections. Stored order is kept within each section.
func Render(tasks []Task, showTimestamps bool) string {
	if len(tasks) == 0 {
		return EmptyList
	}

	var inProgress, pending, completed []Task
	for _, t := range tasks {
		switch t.Status {
		case InProgress:
			inProgress = append(inProgress, t)
		case Completed:
			completed = append(completed, t)
		default:
			pending = append(pending, t)
		}
	}

	lines := []string{
		"## Task Progress\n",
		fmt.Sprintf("**Progress: %d/%d tasks completed**\n", len(completed), len(tasks)),
	}

	if len(inProgress) > 0 {
		lines = append(lines, "\n### 🔄 In Progress")
		for _, t := range inProgress {
			line := fmt.Sprintf("  %s [%d] %s", StatusIcon(t.Status), t.ID, t.Title)
			if showTimestamps {
				line += fmt.Sprintf(" _(started: %s)_", t.UpdatedAt.Format(timestampLayout))
			}
			lines = append(lines, line)
		}
	}

	if len(pending) > 0 {
		lines = append(lines, "\n### ⏳ Pending")
		for _, t := range pending {
			lines = append(lines, fmt.Sprintf("  %s [%d] %s", StatusIcon(t.Status), t.ID, t.Title))
		}
	}

	if len(completed) > 0 {
		lines = append(lines, "\n### ✅ Completed")
		for _, t := range completed {
			line := fmt.Sprintf("  %s [%d] ~~%s~~", StatusIcon(t.Status), t.ID, t.Title)
			if showTimestamps {
				line += fmt.Sprintf(" _(completed: %s)_", t.UpdatedAt.Format(timestampLayout))
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// Summary is the one-line progress description emitted after a replace,
// e.g. "Tasks: 1/3 completed, 1 in progress, 1 pending".
func Summary(c Counts) string {
	msg := fmt.Sprintf("Tasks: %d/%d completed", c.Completed, c.Total)
	if c.InProgress > 0 {
		msg += fmt.Sprintf(", %d in progress", c.InProgress)
	}
	if c.Pending > 0 {
		msg += fmt.Sprintf(", %d pending", c.Pending)
	}
	return msg
}
