package service

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/domain"

	"github.com/google/uuid"
)

// TaskStore is the storage the task service mutates.
type TaskStore interface {
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	Insert(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, id string, fn func(current domain.Task) (domain.Task, error)) (domain.Task, error)
	Remove(ctx context.Context, id string, check func(current domain.Task) error) (domain.Task, error)
}

// EventPublisher receives a change event after every successful mutation.
type EventPublisher interface {
	Publish(event domain.TaskEvent)
}

// TaskService validates input, assigns ids and timestamps, and records every
// mutation in the audit log.
type TaskService struct {
	store  TaskStore
	audit  *AuditService
	events EventPublisher
	now    func() time.Time
	newID  func() string
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) { s.newID = newID }
}

// WithEvents publishes change events to p.
func WithEvents(p EventPublisher) Option {
	return func(s *TaskService) { s.events = p }
}

func NewTaskService(store TaskStore, audit *AuditService, opts ...Option) *TaskService {
	s := &TaskService{
		store: store,
		audit: audit,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.store.List(ctx)
}

func (s *TaskService) Get(ctx context.Context, id string) (domain.Task, error) {
	return s.store.Get(ctx, id)
}

// validatedInput is a TaskInput that passed the create/update rules.
type validatedInput struct {
	title       string
	description *string
	priority    *domain.Priority
	dueDate     *time.Time
}

func validateInput(in domain.TaskInput) (validatedInput, error) {
	title, err := domain.ValidateTitle(in.Title)
	if err != nil {
		return validatedInput{}, err
	}
	out := validatedInput{title: title, description: in.Description}
	if in.Priority != nil {
		if err := domain.ValidatePriority(*in.Priority); err != nil {
			return validatedInput{}, err
		}
		out.priority = in.Priority
	}
	if in.DueDate != nil {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return validatedInput{}, err
		}
		out.dueDate = due
	}
	return out, nil
}

// Create validates in and appends a new task.
func (s *TaskService) Create(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	v, err := validateInput(in)
	if err != nil {
		return domain.Task{}, err
	}

	task := domain.Task{
		ID:        s.newID(),
		Title:     v.title,
		Priority:  domain.PriorityMedium,
		CreatedAt: domain.Timestamp(s.now()),
		DueDate:   v.dueDate,
	}
	if v.description != nil {
		task.Description = *v.description
	}
	if v.priority != nil {
		task.Priority = *v.priority
	}

	created, err := s.store.Insert(ctx, task)
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	s.recordMutation(ctx, domain.AuditActionCreated, created)
	return created, nil
}

// Replace overwrites the title and every optional field the body provides;
// omitted optional fields and the completion flag keep their values.
func (s *TaskService) Replace(ctx context.Context, id string, in domain.TaskInput, ifMatch string) (domain.Task, error) {
	v, err := validateInput(in)
	if err != nil {
		return domain.Task{}, err
	}

	updated, err := s.store.Update(ctx, id, func(current domain.Task) (domain.Task, error) {
		if !current.MatchesETag(ifMatch) {
			return domain.Task{}, domain.ErrConflict
		}
		next := current
		next.Title = v.title
		if v.description != nil {
			next.Description = *v.description
		}
		if v.priority != nil {
			next.Priority = *v.priority
		}
		if v.dueDate != nil {
			next.DueDate = v.dueDate
		}
		ts := domain.Timestamp(s.now())
		next.UpdatedAt = &ts
		return next, nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.recordMutation(ctx, domain.AuditActionUpdated, updated)
	return updated, nil
}

// Patch shallow-merges the provided fields and stamps updatedAt.
func (s *TaskService) Patch(ctx context.Context, id string, patch domain.TaskPatch, ifMatch string) (domain.Task, error) {
	updated, err := s.store.Update(ctx, id, func(current domain.Task) (domain.Task, error) {
		// runs after the lookup, so an unknown id wins over a bad body
		valid, err := patch.Validate()
		if err != nil {
			return domain.Task{}, err
		}
		if !current.MatchesETag(ifMatch) {
			return domain.Task{}, domain.ErrConflict
		}
		next := valid.Apply(current)
		ts := domain.Timestamp(s.now())
		next.UpdatedAt = &ts
		return next, nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.recordMutation(ctx, domain.AuditActionPatched, updated)
	return updated, nil
}

// Delete removes the task and returns the removed record.
func (s *TaskService) Delete(ctx context.Context, id string, ifMatch string) (domain.Task, error) {
	removed, err := s.store.Remove(ctx, id, func(current domain.Task) error {
		if !current.MatchesETag(ifMatch) {
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.recordMutation(ctx, domain.AuditActionDeleted, removed)
	return removed, nil
}

func (s *TaskService) recordMutation(ctx context.Context, action domain.AuditAction, task domain.Task) {
	TaskMutations.WithLabelValues(string(action)).Inc()
	s.audit.Record(ctx, action, task)
	if s.events != nil {
		s.events.Publish(domain.TaskEvent{
			Type: action.EventType(),
			Task: task,
			At:   domain.Timestamp(s.now()),
		})
	}
}
