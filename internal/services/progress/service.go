// Package progress derives a student's path through a course from the module
// and project chains. A project is locked for a student until a progress row
// releases it; completing a project releases its successor.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/tramo/internal/database"
	"github.com/thenoetrevino/tramo/internal/events"
	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
)

// overviewConcurrency bounds the parallel project list loads of Overview
const overviewConcurrency = 4

// Service defines student progression operations
type Service interface {
	// Read operations
	Overview(ctx context.Context, studentID, courseID string) ([]*ModuleProgress, error)
	Counts(ctx context.Context, studentID, courseID string) (*Counts, error)

	// Write operations
	Start(ctx context.Context, studentID, courseID string) (*models.Project, error)
	Complete(ctx context.Context, studentID, projectID string) (*CompleteResult, error)
}

// ProjectProgress is a project with the student's status on it
type ProjectProgress struct {
	Project *models.Project
	Status  models.ProgressStatus
}

// ModuleProgress is a module with its projects in order and a status derived
// from theirs
type ModuleProgress struct {
	Module   *models.Module
	Status   models.ProgressStatus
	Projects []ProjectProgress
}

// Counts summarises how much of a course a student has finished
type Counts struct {
	CompletedModules  int `json:"completed_modules"`
	Modules           int `json:"modules"`
	CompletedProjects int `json:"completed_projects"`
	Projects          int `json:"projects"`
}

// CompleteResult reports the outcome of Complete. Released is nil when the
// project was the last one of the course.
type CompleteResult struct {
	Progress *models.StudentProject
	Released *models.Project
}

// service implements Service interface
type service struct {
	courseRepo   *database.CourseRepo
	moduleRepo   *database.ModuleRepo
	projectRepo  *database.ProjectRepo
	progressRepo *database.ProgressRepo
	modules      *sequence.Engine[*models.Module]
	projects     *sequence.Engine[*models.Project]
	eventClient  events.EventPublisher
}

// NewService creates a new progress service. The sequence engines it builds
// only read chains.
func NewService(db *sql.DB, eventClient events.EventPublisher, opts ...sequence.Option) Service {
	moduleRepo := database.NewModuleRepo(db)
	projectRepo := database.NewProjectRepo(db)
	return &service{
		courseRepo:   database.NewCourseRepo(db),
		moduleRepo:   moduleRepo,
		projectRepo:  projectRepo,
		progressRepo: database.NewProgressRepo(db),
		modules:      sequence.NewEngine[*models.Module](events.KindModule, moduleRepo, opts...),
		projects:     sequence.NewEngine[*models.Project](events.KindProject, projectRepo, opts...),
		eventClient:  eventClient,
	}
}

// Start releases the first project of the course if the student has no
// progress in it yet. Modules without projects are skipped. It returns the
// released project, or nil when nothing was released.
func (s *service) Start(ctx context.Context, studentID, courseID string) (*models.Project, error) {
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	existing, err := s.progressRepo.CountInCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, nil
	}

	head, ok, err := s.modules.Head(ctx, courseID)
	if err != nil || !ok {
		return nil, err
	}
	first, err := s.firstProjectFrom(ctx, head)
	if err != nil || first == nil {
		return nil, err
	}
	if err := s.release(ctx, studentID, first); err != nil {
		return nil, err
	}
	return first, nil
}

// Complete marks the project completed for the student and releases the
// project that follows it: the next project of the module or else the first
// project of the next non-empty module. A project already finished keeps its
// status; a successor already released is left alone.
func (s *service) Complete(ctx context.Context, studentID, projectID string) (*CompleteResult, error) {
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if errors.Is(err, sequence.ErrNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	current, err := s.progressRepo.Get(ctx, studentID, projectID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	if current == nil || !current.Status.Done() {
		if err := s.progressRepo.SetStatus(ctx, studentID, projectID, models.ProgressCompleted); err != nil {
			return nil, err
		}
		s.publishProgressEvent(events.EventCompleted, studentID, projectID)
	}

	next, err := s.successor(ctx, project)
	if err != nil {
		return nil, err
	}
	if next != nil {
		if err := s.release(ctx, studentID, next); err != nil {
			return nil, err
		}
	}

	progress, err := s.progressRepo.Get(ctx, studentID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &CompleteResult{Progress: progress, Released: next}, nil
}

// Overview returns every module of the course in order with the student's
// status on each of its projects
func (s *service) Overview(ctx context.Context, studentID, courseID string) ([]*ModuleProgress, error) {
	if studentID == "" {
		return nil, ErrInvalidStudentID
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	modules, err := s.modules.List(ctx, courseID)
	if err != nil {
		return nil, err
	}
	statuses, err := s.progressRepo.StatusByProject(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	overview := make([]*ModuleProgress, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)
	for i, m := range modules {
		g.Go(func() error {
			projects, err := s.projects.List(gctx, m.ID)
			if err != nil {
				return err
			}
			overview[i] = buildModuleProgress(m, projects, statuses)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// Counts reports completed modules and projects against the course totals.
// A module is completed when it has projects and all of them are done.
func (s *service) Counts(ctx context.Context, studentID, courseID string) (*Counts, error) {
	overview, err := s.Overview(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	counts := &Counts{}
	if counts.Modules, err = s.moduleRepo.CountByCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if counts.Projects, err = s.projectRepo.CountByCourse(ctx, courseID); err != nil {
		return nil, err
	}
	counts.CompletedProjects, err = s.progressRepo.CountInCourse(ctx, studentID, courseID,
		models.ProgressCompleted, models.ProgressSubmitted, models.ProgressGraded, models.ProgressVerified)
	if err != nil {
		return nil, err
	}
	for _, mp := range overview {
		if mp.Status == models.ProgressCompleted {
			counts.CompletedModules++
		}
	}
	return counts, nil
}

func buildModuleProgress(m *models.Module, projects []*models.Project, statuses map[string]models.ProgressStatus) *ModuleProgress {
	mp := &ModuleProgress{Module: m, Projects: make([]ProjectProgress, 0, len(projects))}
	for _, p := range projects {
		status, ok := statuses[p.ID]
		if !ok {
			status = models.ProgressLocked
		}
		mp.Projects = append(mp.Projects, ProjectProgress{Project: p, Status: status})
	}
	mp.Status = moduleStatus(mp.Projects)
	return mp
}

// moduleStatus derives a module's status from its projects
func moduleStatus(projects []ProjectProgress) models.ProgressStatus {
	if len(projects) == 0 {
		return models.ProgressLocked
	}
	locked, done, released := 0, 0, false
	for _, p := range projects {
		switch {
		case p.Status == models.ProgressLocked:
			locked++
		case p.Status.Done():
			done++
		case p.Status == models.ProgressReleased:
			released = true
		}
	}
	switch {
	case done == len(projects):
		return models.ProgressCompleted
	case locked == len(projects):
		return models.ProgressLocked
	case released:
		return models.ProgressReleased
	default:
		return models.ProgressInProgress
	}
}

// successor returns the project after p in course order, or nil at the end
func (s *service) successor(ctx context.Context, p *models.Project) (*models.Project, error) {
	next, ok, err := s.projects.Next(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		return next, nil
	}

	module, err := s.moduleRepo.Get(ctx, p.ModuleID())
	if err != nil {
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	nextModule, ok, err := s.modules.Next(ctx, module.ID)
	if err != nil || !ok {
		return nil, err
	}
	return s.firstProjectFrom(ctx, nextModule)
}

// firstProjectFrom returns the head project of m or of the first non-empty
// module after it
func (s *service) firstProjectFrom(ctx context.Context, m *models.Module) (*models.Project, error) {
	for {
		head, ok, err := s.projects.Head(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			return head, nil
		}
		if m, ok, err = s.modules.Next(ctx, m.ID); err != nil || !ok {
			return nil, err
		}
	}
}

func (s *service) release(ctx context.Context, studentID string, p *models.Project) error {
	created, err := s.progressRepo.Release(ctx, studentID, p.ID)
	if err != nil {
		return err
	}
	if created {
		s.publishProgressEvent(events.EventReleased, studentID, p.ID)
	}
	return nil
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

// publishProgressEvent publishes a progress event. The group of a progress
// event is the student.
func (s *service) publishProgressEvent(eventType events.EventType, studentID, projectID string) {
	_ = events.PublishWithRetry(s.eventClient, events.Event{
		Type:    eventType,
		Kind:    events.KindProgress,
		GroupID: studentID,
		NodeID:  projectID,
	}, events.DefaultMaxRetries)
}
