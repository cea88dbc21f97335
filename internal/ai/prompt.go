package ai

import (
	"fmt"
	"strings"

	"study-planner-backend/internal/tasks"
)

// SystemPrompt is the study-coach persona sent with every agent request.
const SystemPrompt = `You are a study planning assistant. You help students organize tasks,
manage deadlines and build consistent study habits.

Guidelines:
- Be concise and concrete: suggest specific tasks, dates and hour amounts.
- Prioritize overdue work and near deadlines before anything else.
- When the schedule is overloaded, recommend moving low-priority tasks, not dropping them.
- Never invent tasks the student does not have.`

// BuildUserContext renders the student's current tasks into the context
// block attached to agent requests.
func BuildUserContext(ts []tasks.Task) string {
	if len(ts) == 0 {
		return "No study data available yet."
	}

	var b strings.Builder
	b.WriteString("## Current Tasks:\n")

	for _, t := range ts {
		b.WriteString("- ")
		b.WriteString(t.Title)
		if t.SubjectName != "" {
			b.WriteString(" (")
			b.WriteString(t.SubjectName)
			b.WriteString(")")
		}
		fmt.Fprintf(&b, ": priority %d, %s, %.1fh estimated, %.0f%% done",
			t.Priority, t.Status, t.EstimatedHours, t.CompletionPercentage)
		if t.Deadline != nil {
			fmt.Fprintf(&b, ", due %s", t.Deadline.Format("2006-01-02"))
		}
		if t.ScheduledDate != nil {
			fmt.Fprintf(&b, ", scheduled %s", t.ScheduledDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	return b.String()
}
