// Package summary builds weekly study summaries from the tasks planned in
// a week and keeps them for trend comparison.
package summary

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"study-planner-backend/internal/tasks"
)

const dateLayout = "2006-01-02"

type SubjectStats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Hours     float64 `json:"hours"`
}

type Summary struct {
	WeekStart         string                  `json:"week_start_date"`
	WeekEnd           string                  `json:"week_end_date"`
	TasksPlanned      int                     `json:"total_tasks_planned"`
	TasksCompleted    int                     `json:"total_tasks_completed"`
	HoursPlanned      float64                 `json:"total_hours_planned"`
	HoursActual       float64                 `json:"total_hours_actual"`
	CompletionRate    float64                 `json:"completion_rate"`
	ProductivityScore float64                 `json:"productivity_score"`
	SubjectBreakdown  map[string]SubjectStats `json:"subject_breakdown"`
	TasksByStatus     map[string]int          `json:"tasks_by_status"`
}

// Build computes the summary for one week's tasks. Productivity averages
// the completion rate with how much of the planned time was actually spent
// (capped at 100).
func Build(ts []tasks.Task, weekStart time.Time) Summary {
	s := Summary{
		WeekStart:        weekStart.Format(dateLayout),
		WeekEnd:          weekStart.AddDate(0, 0, 6).Format(dateLayout),
		SubjectBreakdown: map[string]SubjectStats{},
		TasksByStatus: map[string]int{
			tasks.StatusCompleted:  0,
			tasks.StatusInProgress: 0,
			tasks.StatusPending:    0,
			tasks.StatusOverdue:    0,
		},
	}

	for _, t := range ts {
		s.TasksPlanned++
		s.HoursPlanned += t.EstimatedHours
		s.HoursActual += t.ActualHours

		if t.Status == tasks.StatusCompleted {
			s.TasksCompleted++
		}
		if _, known := s.TasksByStatus[t.Status]; known {
			s.TasksByStatus[t.Status]++
		}

		subject := t.SubjectName
		if subject == "" {
			subject = "No Subject"
		}
		stats := s.SubjectBreakdown[subject]
		stats.Total++
		stats.Hours += t.ActualHours
		if t.Status == tasks.StatusCompleted {
			stats.Completed++
		}
		s.SubjectBreakdown[subject] = stats
	}

	if s.TasksPlanned > 0 {
		s.CompletionRate = round2(float64(s.TasksCompleted) / float64(s.TasksPlanned) * 100)
	}
	if s.HoursPlanned > 0 {
		timeEfficiency := math.Min(100, s.HoursActual/s.HoursPlanned*100)
		s.ProductivityScore = round2((s.CompletionRate + timeEfficiency) / 2)
	}

	s.HoursPlanned = round2(s.HoursPlanned)
	s.HoursActual = round2(s.HoursActual)

	return s
}

// WeekStartOf returns the Monday of the week containing d.
func WeekStartOf(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ----------------------
//       GENERATOR
// ----------------------

type Generator struct {
	DB    *sql.DB
	Tasks *tasks.Store
}

func NewGenerator(db *sql.DB, store *tasks.Store) *Generator {
	return &Generator{DB: db, Tasks: store}
}

// Generate builds and stores the summary for the given week. Re-generating
// a week replaces the stored row.
func (g *Generator) Generate(ctx context.Context, userID int, weekStart time.Time) (Summary, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)

	ts, err := g.Tasks.GetByDateRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return Summary{}, err
	}

	s := Build(ts, weekStart)

	data, err := json.Marshal(s)
	if err != nil {
		return Summary{}, err
	}

	_, err = g.DB.ExecContext(ctx,
		`INSERT INTO weekly_summaries (user_id, week_start_date, week_end_date, summary_data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, week_start_date) DO UPDATE SET
			week_end_date = EXCLUDED.week_end_date,
			summary_data = EXCLUDED.summary_data`,
		userID, s.WeekStart, s.WeekEnd, string(data),
	)
	if err != nil {
		return Summary{}, err
	}

	return s, nil
}

// Recent returns the stored summaries for the last n weeks, newest first.
func (g *Generator) Recent(ctx context.Context, userID, n int) ([]Summary, error) {
	rows, err := g.DB.QueryContext(ctx,
		`SELECT summary_data
		 FROM weekly_summaries
		 WHERE user_id = $1
		 ORDER BY week_start_date DESC
		 LIMIT $2`,
		userID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			// a corrupt row should not hide the rest
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

type TrendPoint struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
}

type Comparison struct {
	Summaries []Summary `json:"summaries"`
	Trends    struct {
		CompletionRate []TrendPoint `json:"completion_rate_trend"`
		Productivity   []TrendPoint `json:"productivity_trend"`
		Hours          []TrendPoint `json:"hours_trend"`
	} `json:"trends"`
}

// Compare assembles trend series over the most recent stored summaries.
func Compare(summaries []Summary) Comparison {
	c := Comparison{Summaries: summaries}
	c.Trends.CompletionRate = []TrendPoint{}
	c.Trends.Productivity = []TrendPoint{}
	c.Trends.Hours = []TrendPoint{}

	for _, s := range summaries {
		c.Trends.CompletionRate = append(c.Trends.CompletionRate, TrendPoint{Week: s.WeekStart, Value: s.CompletionRate})
		c.Trends.Productivity = append(c.Trends.Productivity, TrendPoint{Week: s.WeekStart, Value: s.ProductivityScore})
		c.Trends.Hours = append(c.Trends.Hours, TrendPoint{Week: s.WeekStart, Value: s.HoursActual})
	}

	return c
}
