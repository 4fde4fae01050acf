package service

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/domain"
)

type sampleTask struct {
	title       string
	description string
	priority    domain.Priority
	completed   bool
	dueIn       time.Duration
}

var sampleTasks = []sampleTask{
	{
		title:       "Complete project documentation",
		description: "Write comprehensive documentation for the TaskFlow project",
		priority:    domain.PriorityHigh,
		dueIn:       7 * 24 * time.Hour,
	},
	{
		title:       "Schedule team meeting",
		description: "Plan the weekly team sync to discuss project progress",
		priority:    domain.PriorityMedium,
		completed:   true,
		dueIn:       2 * 24 * time.Hour,
	},
	{
		title:       "Research new technologies",
		description: "Look into potential new tools and frameworks for upcoming projects",
		priority:    domain.PriorityLow,
		dueIn:       14 * 24 * time.Hour,
	},
}

// Seed inserts the demo tasks shown on a fresh install. Seeding bypasses the
// audit log and the live feed.
func (s *TaskService) Seed(ctx context.Context) error {
	now := domain.Timestamp(s.now())
	for _, sample := range sampleTasks {
		due := now.Add(sample.dueIn)
		task := domain.Task{
			ID:          s.newID(),
			Title:       sample.title,
			Description: sample.description,
			Priority:    sample.priority,
			Completed:   sample.completed,
			CreatedAt:   now,
			DueDate:     &due,
		}
		if _, err := s.store.Insert(ctx, task); err != nil {
			return fmt.Errorf("seed %q: %w", sample.title, err)
		}
	}
	return nil
}
