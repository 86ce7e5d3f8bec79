package module

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thenoetrevino/tramo/internal/database"
	"github.com/thenoetrevino/tramo/internal/events"
	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
	"github.com/thenoetrevino/tramo/internal/types"
)

// Limits on module payload fields
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 300
)

// Service defines all module-related business operations
type Service interface {
	// Read operations
	GetModule(ctx context.Context, id string) (*models.Module, error)
	ListModules(ctx context.Context, courseID string) ([]*models.Module, error)
	ListPublishedModules(ctx context.Context, courseID string) ([]*models.Module, error)
	CheckModules(ctx context.Context, courseID string) error

	// Write operations
	CreateModule(ctx context.Context, req CreateModuleRequest) (*models.Module, error)
	ReorderModule(ctx context.Context, req ReorderModuleRequest) (*models.Module, error)
	UpdateModuleDetails(ctx context.Context, req UpdateModuleDetailsRequest) (*models.Module, error)
	DeleteModule(ctx context.Context, id string) error
	RepairModules(ctx context.Context, courseID string) (int, error)
}

// CreateModuleRequest encapsulates data for creating a module.
// An empty AfterID places the module at the head of the course.
type CreateModuleRequest struct {
	CourseID    string
	Title       string
	Description string
	Status      string
	AfterID     string
}

// ReorderModuleRequest moves a module to directly after AfterID, or to the
// head when AfterID is empty
type ReorderModuleRequest struct {
	ID      string
	AfterID string
}

// UpdateModuleDetailsRequest changes payload fields; nil fields are kept
type UpdateModuleDetailsRequest struct {
	ID          string
	Title       *string
	Description *string
	Status      *string
}

// service implements Service interface
type service struct {
	repo        *database.ModuleRepo
	courseRepo  *database.CourseRepo
	projectRepo *database.ProjectRepo
	engine      *sequence.Engine[*models.Module]
	eventClient events.EventPublisher
}

// NewService creates a new module service. opts configure the sequence
// engine that orders each course's modules.
func NewService(db *sql.DB, eventClient events.EventPublisher, opts ...sequence.Option) Service {
	repo := database.NewModuleRepo(db)
	return &service{
		repo:        repo,
		courseRepo:  database.NewCourseRepo(db),
		projectRepo: database.NewProjectRepo(db),
		engine:      sequence.NewEngine[*models.Module](events.KindModule, repo, opts...),
		eventClient: eventClient,
	}
}

// GetModule retrieves a specific module
func (s *service) GetModule(ctx context.Context, id string) (*models.Module, error) {
	if id == "" {
		return nil, ErrInvalidModuleID
	}
	m, err := s.repo.Get(ctx, id)
	if errors.Is(err, sequence.ErrNotFound) {
		return nil, ErrModuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return m, nil
}

// ListModules returns the modules of a course in chain order
func (s *service) ListModules(ctx context.Context, courseID string) ([]*models.Module, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.engine.List(ctx, courseID)
}

// ListPublishedModules returns the published modules of a course in chain
// order. The full chain is materialized before filtering.
func (s *service) ListPublishedModules(ctx context.Context, courseID string) ([]*models.Module, error) {
	modules, err := s.ListModules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return sequence.Keep(modules, func(m *models.Module) bool {
		return m.Status == models.ModulePublished
	}), nil
}

// CheckModules verifies the chain of a course
func (s *service) CheckModules(ctx context.Context, courseID string) error {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return err
	}
	return s.engine.Check(ctx, courseID)
}

// CreateModule creates a module and links it into the course
func (s *service) CreateModule(ctx context.Context, req CreateModuleRequest) (*models.Module, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	status, err := models.ParseModuleStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	if err := s.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	ts := time.Now().UTC().Truncate(time.Second)
	m := &models.Module{
		Link:        sequence.Link{ID: types.NewID()},
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	created, err := s.engine.Insert(ctx, m, req.CourseID, sequence.Ref(req.AfterID))
	if err != nil {
		return nil, positionError("create", err)
	}

	s.publishModuleEvent(events.EventCreated, created)
	return created, nil
}

// ReorderModule changes the position of a module within its course
func (s *service) ReorderModule(ctx context.Context, req ReorderModuleRequest) (*models.Module, error) {
	if _, err := s.GetModule(ctx, req.ID); err != nil {
		return nil, err
	}

	moved, err := s.engine.Relocate(ctx, req.ID, sequence.Ref(req.AfterID))
	if err != nil {
		return nil, positionError("reorder", err)
	}

	s.publishModuleEvent(events.EventReordered, moved)
	return moved, nil
}

// UpdateModuleDetails changes title, description or status. The module's
// position is never touched here.
func (s *service) UpdateModuleDetails(ctx context.Context, req UpdateModuleDetailsRequest) (*models.Module, error) {
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
	}

	existing, err := s.GetModule(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}
	status := existing.Status
	if req.Status != nil {
		if status, err = models.ParseModuleStatus(*req.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
	}

	if err := s.repo.UpdateDetails(ctx, req.ID, title, description, status); err != nil {
		if errors.Is(err, sequence.ErrNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("failed to update module: %w", err)
	}

	updated, err := s.GetModule(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	s.publishModuleEvent(events.EventUpdated, updated)
	return updated, nil
}

// DeleteModule unlinks and deletes a module (business rule: must not have projects)
func (s *service) DeleteModule(ctx context.Context, id string) error {
	if _, err := s.GetModule(ctx, id); err != nil {
		return err
	}

	count, err := s.projectRepo.CountByModule(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check module projects: %w", err)
	}
	if count > 0 {
		return ErrModuleHasProjects
	}

	removed, err := s.engine.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, sequence.ErrNotFound) {
			return ErrModuleNotFound
		}
		return fmt.Errorf("failed to delete module: %w", err)
	}

	s.publishModuleEvent(events.EventDeleted, removed)
	return nil
}

// RepairModules relinks a broken course chain and returns the number of
// modules rewritten
func (s *service) RepairModules(ctx context.Context, courseID string) (int, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return 0, err
	}
	writes, err := s.engine.Repair(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to repair modules: %w", err)
	}
	if writes > 0 {
		_ = events.PublishWithRetry(s.eventClient, events.Event{
			Type:    events.EventRepaired,
			Kind:    events.KindModule,
			GroupID: courseID,
		}, events.DefaultMaxRetries)
	}
	return writes, nil
}

func (s *service) requireCourse(ctx context.Context, courseID string) error {
	if courseID == "" {
		return ErrInvalidCourseID
	}
	if _, err := s.courseRepo.Get(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	return nil
}

// positionError maps engine errors of a placing operation. A missing node
// at this point is the predecessor, the module itself was checked first.
func positionError(op string, err error) error {
	if errors.Is(err, sequence.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrPredecessorNotFound, err)
	}
	return fmt.Errorf("failed to %s module: %w", op, err)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// publishModuleEvent publishes a module event
func (s *service) publishModuleEvent(eventType events.EventType, m *models.Module) {
	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:    eventType,
		Kind:    events.KindModule,
		GroupID: m.CourseID(),
		NodeID:  m.ID,
	}, events.DefaultMaxRetries)
}
