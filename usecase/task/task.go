package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// naive layouts accepted for deadlines that arrive without an offset.
// They are interpreted in the request timezone (attached, never converted).
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// CreateInput is the payload for a new task. Deadline is raw text so the
// engine owns parsing and normalization.
type CreateInput struct {
	Title       string
	Description string
	Priority    string
	Deadline    string
}

type Option func(*UseCase)

// WithClock overrides the time source. Every operation computes a single
// "now" snapshot from it and reuses that snapshot for validation and
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create validates and normalizes the payload, then persists a new task
// owned by ownerID. Validation runs before any write is attempted.
func (uc *UseCase) Create(ctx context.Context, input CreateInput, ownerID, timezone string) (*domain.Task, error) {
	loc, err := resolveLocation(timezone)
	if err != nil {
		return nil, err
	}
	now := uc.now().In(loc)

	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrMissingTitle
	}

	priority, err := domain.ParseTaskPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	deadline, err := parseDeadline(input.Deadline, loc)
	if err != nil {
		return nil, err
	}
	if deadline != nil && deadline.Before(now) {
		return nil, domain.ErrDeadlinePast
	}

	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		State:       domain.StateToDo,
		Priority:    priority,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		uc.logger.Error("task create failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, ownerID)
}

// Update applies a partial merge: only fields present in the patch change.
// OwnerID and CreatedAt are never touched; UpdatedAt is always refreshed
// to the same snapshot used for deadline validation.
func (uc *UseCase) Update(ctx context.Context, id string, patch domain.TaskPatch, timezone string) (*domain.Task, error) {
	loc, err := resolveLocation(timezone)
	if err != nil {
		return nil, err
	}
	now := uc.now().In(loc)

	existing, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, domain.ErrMissingTitle
		}
		existing.Title = *patch.Title
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.State != nil {
		state, err := domain.ParseTaskState(*patch.State)
		if err != nil {
			return nil, err
		}
		existing.State = state
	}
	if patch.Priority != nil {
		priority, err := domain.ParseTaskPriority(*patch.Priority)
		if err != nil {
			return nil, err
		}
		existing.Priority = priority
	}
	if patch.Deadline != nil && *patch.Deadline != "" {
		deadline, err := parseDeadline(*patch.Deadline, loc)
		if err != nil {
			return nil, err
		}
		if deadline.Before(now) {
			return nil, domain.ErrDeadlinePast
		}
		existing.Deadline = deadline
	}

	existing.UpdatedAt = now

	if err := uc.tasks.Update(ctx, existing); err != nil {
		uc.logger.Error("task update failed", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return existing, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tasks.Delete(ctx, id)
}

// resolveLocation maps a timezone hint to a concrete location. An empty
// hint means UTC; an unrecognized one is a validation failure.
func resolveLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, domain.ErrInvalidTimezone
	}
	return loc, nil
}

// parseDeadline turns deadline text into a timestamp. Text carrying an
// explicit offset is kept as-is; naive text gets the request timezone
// attached without converting the wall-clock value.
func parseDeadline(raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}
	return nil, domain.ErrInvalidDeadline
}
