package course

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
	"github.com/thenoetrevino/tramo/internal/types"
)

// Limits on course payload fields
const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 300
)

// Service defines all course-related business operations
type Service interface {
	// Read operations
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)

	// Write operations
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, req UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// CreateCourseRequest encapsulates data for creating a course
type CreateCourseRequest struct {
	Title       string
	Description string
}

// UpdateCourseRequest encapsulates data for updating a course
type UpdateCourseRequest struct {
	ID          string
	Title       *string
	Description *string
}

// service implements Service interface
type service struct {
	repo        *database.CourseRepo
	eventClient events.EventPublisher
}

// NewService creates a new course service
func NewService(db *sql.DB, eventClient events.EventPublisher) Service {
	return &service{
		repo:        database.NewCourseRepo(db),
		eventClient: eventClient,
	}
}

// GetCourse retrieves a specific course
func (s *service) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	if id == "" {
		return nil, ErrInvalidCourseID
	}
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

// ListCourses retrieves all courses in creation order
func (s *service) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.repo.List(ctx)
}

// CreateCourse creates a new course with validation
func (s *service) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	ts := time.Now().UTC().Truncate(time.Second)
	c := &models.Course{
		ID:          types.NewID(),
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.publishCourseEvent(events.EventCreated, c.ID)
	return c, nil
}

// UpdateCourse changes the title and/or description of a course
func (s *service) UpdateCourse(ctx context.Context, req UpdateCourseRequest) (*models.Course, error) {
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

	existing, err := s.GetCourse(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}

	if err := s.repo.Update(ctx, existing.ID, existing.Title, existing.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.publishCourseEvent(events.EventUpdated, existing.ID)
	return s.GetCourse(ctx, existing.ID)
}

// DeleteCourse deletes a course. Its modules, projects and progress rows go
// with it.
func (s *service) DeleteCourse(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidCourseID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.publishCourseEvent(events.EventDeleted, id)
	return nil
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

// publishCourseEvent publishes a course event
func (s *service) publishCourseEvent(eventType events.EventType, courseID string) {
	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:    eventType,
		Kind:    events.KindCourse,
		GroupID: courseID,
		NodeID:  courseID,
	}, events.DefaultMaxRetries)
}
