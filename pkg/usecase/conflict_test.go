package usecase_test

import (
	"testing"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestMarkerDetector_HasConflict(t *testing.T) {
	tests := []struct {
		name   string
		result *model.CommandResult
		want   bool
	}{
		{
			name:   "unmerged files",
			result: unmergedVerify(),
			want:   true,
		},
		{
			name: "marker case does not matter",
			result: &model.CommandResult{
				ExitCode: 128,
				Stderr:   "fatal: Exiting because of an UNRESOLVED CONFLICT.",
			},
			want: true,
		},
		{
			name:   "no replay in progress",
			result: notInProgress(),
			want:   false,
		},
		{
			name: "success ignores markers",
			result: &model.CommandResult{
				Stderr: "unmerged files",
			},
			want: false,
		},
		{
			name: "stdout is not scanned by default",
			result: &model.CommandResult{
				ExitCode: 1,
				Stdout:   "fatal: Exiting because of an unresolved conflict.",
			},
			want: false,
		},
		{
			name:   "nil result",
			result: nil,
			want:   false,
		},
	}

	detector := usecase.NewMarkerDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, detector.HasConflict(tt.result), tt.want)
		})
	}
}

func TestMarkerDetector_ScanStdout(t *testing.T) {
	detector := &usecase.MarkerDetector{
		Markers:    usecase.DefaultConflictMarkers,
		ScanStdout: true,
	}
	gt.True(t, detector.HasConflict(&model.CommandResult{
		ExitCode: 1,
		Stdout:   "error: you have unmerged files",
	}))
}

func TestMarkerDetector_CustomMarkers(t *testing.T) {
	detector := &usecase.MarkerDetector{Markers: []string{"needs merge"}}
	gt.True(t, detector.HasConflict(&model.CommandResult{ExitCode: 1, Stderr: "legacy.txt: needs merge"}))
	gt.False(t, detector.HasConflict(unmergedVerify()))
}
