package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProcessExecutionResultErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		result ProcessExecutionResult
		want   string
	}{
		{
			name:   "stderr wins",
			result: ProcessExecutionResult{ExitCode: 1, Stderr: "  Error: boom\n"},
			want:   "Exit code: 1 - Error: boom",
		},
		{
			name:   "exit code only",
			result: ProcessExecutionResult{ExitCode: 2},
			want:   "Exit code: 2",
		},
		{
			name:   "timeout",
			result: ProcessExecutionResult{TimedOut: true, ExitCode: -1, Duration: 2 * time.Second},
			want:   "Process timed out after 2s",
		},
		{
			name:   "cancelled",
			result: ProcessExecutionResult{Cancelled: true, ExitCode: -1},
			want:   "Process cancelled",
		},
		{
			name:   "unknown",
			result: ProcessExecutionResult{},
			want:   "Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.ErrorMessage())
		})
	}
}

func TestProcessExecutionResultCombinedOutput(t *testing.T) {
	assert.Equal(t, "out", (&ProcessExecutionResult{Stdout: "out"}).CombinedOutput())
	assert.Equal(t, "err", (&ProcessExecutionResult{Stderr: "err"}).CombinedOutput())
	assert.Equal(t, "out\nerr", (&ProcessExecutionResult{Stdout: "out", Stderr: "err"}).CombinedOutput())
}
