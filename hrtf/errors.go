package hrtf

import "errors"

// Error categories. Every failure returned by the subpackages wraps exactly
// one of these, so callers can classify it with errors.Is.
var (
	// ErrFormat reports malformed or unsupported dataset metadata.
	ErrFormat = errors.New("hrtf: unsupported dataset format")
	// ErrLayout reports measurement geometry that fits no canonical grid.
	ErrLayout = errors.New("hrtf: incompatible layout")
	// ErrDuplicate reports two measurements snapping onto the same slot.
	ErrDuplicate = errors.New("hrtf: multiple measurements for one direction")
	// ErrIncomplete reports grid slots left empty after assignment.
	ErrIncomplete = errors.New("hrtf: missing source references")
	// ErrResource reports allocation or worker start-up failures.
	ErrResource = errors.New("hrtf: resource failure")
	// ErrConfig reports an invalid pipeline configuration.
	ErrConfig = errors.New("hrtf: invalid configuration")
)
