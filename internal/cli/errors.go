package cli

import (
	"errors"

	"github.com/thenoetrevino/tramo/internal/sequence"
	courseservice "github.com/thenoetrevino/tramo/internal/services/course"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
	progressservice "github.com/thenoetrevino/tramo/internal/services/progress"
	projectservice "github.com/thenoetrevino/tramo/internal/services/project"
)

// errorClass pairs the machine readable code shown in JSON output with the
// process exit code
type errorClass struct {
	code string
	exit int
}

// errorClasses is checked in order, so wrapped predecessor errors are matched
// before the generic not found errors they wrap
var errorClasses = []struct {
	targets []error
	class   errorClass
}{
	{
		targets: []error{moduleservice.ErrPredecessorNotFound, projectservice.ErrPredecessorNotFound},
		class:   errorClass{"PREDECESSOR_NOT_FOUND", ExitNotFound},
	},
	{
		targets: []error{courseservice.ErrCourseNotFound, moduleservice.ErrCourseNotFound, progressservice.ErrCourseNotFound},
		class:   errorClass{"COURSE_NOT_FOUND", ExitNotFound},
	},
	{
		targets: []error{moduleservice.ErrModuleNotFound, projectservice.ErrModuleNotFound},
		class:   errorClass{"MODULE_NOT_FOUND", ExitNotFound},
	},
	{
		targets: []error{projectservice.ErrProjectNotFound, progressservice.ErrProjectNotFound},
		class:   errorClass{"PROJECT_NOT_FOUND", ExitNotFound},
	},
	{
		targets: []error{sequence.ErrNotFound},
		class:   errorClass{"NOT_FOUND", ExitNotFound},
	},
	{
		targets: []error{sequence.ErrCorruptChain, sequence.ErrAmbiguous},
		class:   errorClass{"CORRUPT_CHAIN", ExitDataErr},
	},
	{
		targets: []error{moduleservice.ErrModuleHasProjects},
		class:   errorClass{"MODULE_NOT_EMPTY", ExitValidation},
	},
	{
		targets: []error{
			courseservice.ErrEmptyTitle, courseservice.ErrTitleTooLong, courseservice.ErrDescriptionTooLong, courseservice.ErrInvalidCourseID,
			moduleservice.ErrEmptyTitle, moduleservice.ErrTitleTooLong, moduleservice.ErrDescriptionTooLong,
			moduleservice.ErrInvalidModuleID, moduleservice.ErrInvalidCourseID, moduleservice.ErrInvalidStatus,
			projectservice.ErrEmptyTitle, projectservice.ErrTitleTooLong, projectservice.ErrDescriptionTooLong,
			projectservice.ErrInvalidProjectID, projectservice.ErrInvalidModuleID, projectservice.ErrInvalidStatus,
			progressservice.ErrInvalidStudentID, progressservice.ErrInvalidCourseID, progressservice.ErrInvalidProjectID,
			sequence.ErrSelfReference, sequence.ErrInvalidNode,
		},
		class: errorClass{"VALIDATION_ERROR", ExitValidation},
	},
}

// classify maps a service error to its output code and exit code
func classify(err error) errorClass {
	for _, c := range errorClasses {
		for _, target := range c.targets {
			if errors.Is(err, target) {
				return c.class
			}
		}
	}
	return errorClass{"INTERNAL_ERROR", ExitError}
}
