package usecase

import (
	"strings"

	"github.com/m-mizutani/backporter/pkg/domain/model"
)

// ConflictDetector decides whether the verification step left unresolved conflicts
type ConflictDetector interface {
	HasConflict(result *model.CommandResult) bool
}

// ConflictDetectorFunc adapts a function to ConflictDetector
type ConflictDetectorFunc func(result *model.CommandResult) bool

// HasConflict implements ConflictDetector
func (f ConflictDetectorFunc) HasConflict(result *model.CommandResult) bool {
	return f(result)
}

// DefaultConflictMarkers are phrases git writes to stderr when a replay cannot be committed
// because of unmerged paths.
var DefaultConflictMarkers = []string{
	"unresolved conflict",
	"unmerged files",
}

// MarkerDetector looks for marker phrases in the diagnostic lines of the verification command.
// It matches git's English wording (the executor forces LC_ALL=C), so a change of that wording
// in a future git release silently turns conflicts into clean results or the other way around.
type MarkerDetector struct {
	Markers []string
	// ScanStdout also scans standard output lines
	ScanStdout bool
}

// NewMarkerDetector returns a detector using DefaultConflictMarkers on stderr
func NewMarkerDetector() *MarkerDetector {
	return &MarkerDetector{Markers: DefaultConflictMarkers}
}

// HasConflict implements ConflictDetector
func (d *MarkerDetector) HasConflict(result *model.CommandResult) bool {
	if result == nil || result.Success() {
		return false
	}

	lines := result.StderrLines()
	if d.ScanStdout {
		lines = append(lines, result.StdoutLines()...)
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range d.Markers {
			if strings.Contains(lower, strings.ToLower(marker)) {
				return true
			}
		}
	}
	return false
}
