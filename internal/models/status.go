package models

import "fmt"

// ============================================================================
// MODULE STATUS
// ============================================================================

// ModuleStatus is the publication state of a module
type ModuleStatus string

const (
	ModuleDraft     ModuleStatus = "draft"
	ModulePublished ModuleStatus = "published"
	ModuleDeleted   ModuleStatus = "deleted"
)

// Valid reports whether s is a known module status
func (s ModuleStatus) Valid() bool {
	switch s {
	case ModuleDraft, ModulePublished, ModuleDeleted:
		return true
	}
	return false
}

// ParseModuleStatus maps user input to a status, empty meaning published
func ParseModuleStatus(s string) (ModuleStatus, error) {
	if s == "" {
		return ModulePublished, nil
	}
	status := ModuleStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid module status '%s' (must be: draft, published, deleted)", s)
	}
	return status, nil
}

// ============================================================================
// PROJECT STATUS
// ============================================================================

// ProjectStatus is the publication state of a project
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPublished ProjectStatus = "published"
)

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	return s == ProjectDraft || s == ProjectPublished
}

// ParseProjectStatus maps user input to a project status
func ParseProjectStatus(s string) (ProjectStatus, error) {
	status := ProjectStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid project status '%s' (must be: draft, published)", s)
	}
	return status, nil
}

// ProjectStatusForMode maps the creation mode to a status. Only "publish"
// publishes, anything else saves a draft.
func ProjectStatusForMode(mode string) ProjectStatus {
	if mode == "publish" {
		return ProjectPublished
	}
	return ProjectDraft
}

// ============================================================================
// PROGRESS STATUS
// ============================================================================

// ProgressStatus is the state of a project for one student
type ProgressStatus string

const (
	ProgressReleased  ProgressStatus = "released"
	ProgressCompleted ProgressStatus = "completed"
	ProgressSubmitted ProgressStatus = "submitted"
	ProgressGraded    ProgressStatus = "graded"
	ProgressVerified  ProgressStatus = "verified"

	// ProgressLocked is never stored; it stands for a missing row
	ProgressLocked     ProgressStatus = "locked"
	// ProgressInProgress is never stored; it describes a module whose
	// projects are partly done
	ProgressInProgress ProgressStatus = "in_progress"
)

// Valid reports whether s can be stored
func (s ProgressStatus) Valid() bool {
	switch s {
	case ProgressReleased, ProgressCompleted, ProgressSubmitted, ProgressGraded, ProgressVerified:
		return true
	}
	return false
}

// Done reports whether the student has finished the project
func (s ProgressStatus) Done() bool {
	switch s {
	case ProgressCompleted, ProgressSubmitted, ProgressGraded, ProgressVerified:
		return true
	}
	return false
}
