package ui

import (
	"fmt"

	"github.com/desertthunder/liketab/internal/tasks"
)

// RenderUpdate formats a sync progress update as a single status line.
func RenderUpdate(update tasks.ProgressUpdate) string {
	if update.Total > 1 {
		return fmt.Sprintf("%s %s", Help(fmt.Sprintf("[%d/%d]", update.Step, update.Total)), update.Message)
	}
	return update.Message
}
