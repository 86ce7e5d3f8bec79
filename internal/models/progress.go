package models

import "time"

// StudentProject records how far one student got with one project.
// A missing row means the project is still locked for that student.
type StudentProject struct {
	StudentID string
	ProjectID string
	Status    ProgressStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
