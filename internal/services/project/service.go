package project

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

// Limits on project payload fields
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 300
)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, moduleID string) ([]*models.Project, error)
	CheckProjects(ctx context.Context, moduleID string) error

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	ReorderProject(ctx context.Context, req ReorderProjectRequest) (*models.Project, error)
	UpdateProjectDetails(ctx context.Context, req UpdateProjectDetailsRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	RepairProjects(ctx context.Context, moduleID string) (int, error)
}

// CreateProjectRequest encapsulates data for creating a project.
// Mode "publish" publishes the project, anything else saves a draft.
// An empty AfterID places the project at the head of the module.
type CreateProjectRequest struct {
	ModuleID    string
	Title       string
	Description string
	Mode        string
	AuthorID    string
	AfterID     string
}

// ReorderProjectRequest moves a project to directly after AfterID, or to
// the head when AfterID is empty
type ReorderProjectRequest struct {
	ID      string
	AfterID string
}

// UpdateProjectDetailsRequest changes payload fields; nil fields are kept
type UpdateProjectDetailsRequest struct {
	ID          string
	Title       *string
	Description *string
	Status      *string
}

// service implements Service interface
type service struct {
	repo        *database.ProjectRepo
	moduleRepo  *database.ModuleRepo
	engine      *sequence.Engine[*models.Project]
	eventClient events.EventPublisher
}

// NewService creates a new project service. opts configure the sequence
// engine that orders each module's projects.
func NewService(db *sql.DB, eventClient events.EventPublisher, opts ...sequence.Option) Service {
	repo := database.NewProjectRepo(db)
	return &service{
		repo:        repo,
		moduleRepo:  database.NewModuleRepo(db),
		engine:      sequence.NewEngine[*models.Project](events.KindProject, repo, opts...),
		eventClient: eventClient,
	}
}

// GetProject retrieves a specific project
func (s *service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if id == "" {
		return nil, ErrInvalidProjectID
	}
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, sequence.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjects returns the projects of a module in chain order
func (s *service) ListProjects(ctx context.Context, moduleID string) ([]*models.Project, error) {
	if err := s.requireModule(ctx, moduleID); err != nil {
		return nil, err
	}
	return s.engine.List(ctx, moduleID)
}

// CheckProjects verifies the chain of a module
func (s *service) CheckProjects(ctx context.Context, moduleID string) error {
	if err := s.requireModule(ctx, moduleID); err != nil {
		return err
	}
	return s.engine.Check(ctx, moduleID)
}

// CreateProject creates a project and links it into the module
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := s.requireModule(ctx, req.ModuleID); err != nil {
		return nil, err
	}

	ts := time.Now().UTC().Truncate(time.Second)
	p := &models.Project{
		Link:        sequence.Link{ID: types.NewID()},
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatusForMode(req.Mode),
		AuthorID:    req.AuthorID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	created, err := s.engine.Insert(ctx, p, req.ModuleID, sequence.Ref(req.AfterID))
	if err != nil {
		return nil, positionError("create", err)
	}

	s.publishProjectEvent(events.EventCreated, created)
	return created, nil
}

// ReorderProject changes the position of a project within its module
func (s *service) ReorderProject(ctx context.Context, req ReorderProjectRequest) (*models.Project, error) {
	if _, err := s.GetProject(ctx, req.ID); err != nil {
		return nil, err
	}

	moved, err := s.engine.Relocate(ctx, req.ID, sequence.Ref(req.AfterID))
	if err != nil {
		return nil, positionError("reorder", err)
	}

	s.publishProjectEvent(events.EventReordered, moved)
	return moved, nil
}

// UpdateProjectDetails changes title, description or status. The project's
// position is never touched here.
func (s *service) UpdateProjectDetails(ctx context.Context, req UpdateProjectDetailsRequest) (*models.Project, error) {
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

	existing, err := s.GetProject(ctx, req.ID)
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
		if status, err = models.ParseProjectStatus(*req.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
	}

	if err := s.repo.UpdateDetails(ctx, req.ID, title, description, status); err != nil {
		if errors.Is(err, sequence.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	updated, err := s.GetProject(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	s.publishProjectEvent(events.EventUpdated, updated)
	return updated, nil
}

// DeleteProject unlinks and deletes a project. Student progress on the
// project is removed with it.
func (s *service) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidProjectID
	}

	removed, err := s.engine.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, sequence.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.publishProjectEvent(events.EventDeleted, removed)
	return nil
}

// RepairProjects relinks a broken module chain and returns the number of
// projects rewritten
func (s *service) RepairProjects(ctx context.Context, moduleID string) (int, error) {
	if err := s.requireModule(ctx, moduleID); err != nil {
		return 0, err
	}
	writes, err := s.engine.Repair(ctx, moduleID)
	if err != nil {
		return 0, fmt.Errorf("failed to repair projects: %w", err)
	}
	if writes > 0 {
		_ = events.PublishWithRetry(s.eventClient, events.Event{
			Type:    events.EventRepaired,
			Kind:    events.KindProject,
			GroupID: moduleID,
		}, events.DefaultMaxRetries)
	}
	return writes, nil
}

func (s *service) requireModule(ctx context.Context, moduleID string) error {
	if moduleID == "" {
		return ErrInvalidModuleID
	}
	if _, err := s.moduleRepo.Get(ctx, moduleID); err != nil {
		if errors.Is(err, sequence.ErrNotFound) {
			return ErrModuleNotFound
		}
		return fmt.Errorf("failed to get module: %w", err)
	}
	return nil
}

// positionError maps engine errors of a placing operation. A missing node
// at this point is the predecessor, the project itself was checked first.
func positionError(op string, err error) error {
	if errors.Is(err, sequence.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrPredecessorNotFound, err)
	}
	return fmt.Errorf("failed to %s project: %w", op, err)
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

// publishProjectEvent publishes a project event
func (s *service) publishProjectEvent(eventType events.EventType, p *models.Project) {
	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:    eventType,
		Kind:    events.KindProject,
		GroupID: p.ModuleID(),
		NodeID:  p.ID,
	}, events.DefaultMaxRetries)
}
