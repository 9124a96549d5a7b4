package cli

import "github.com/openkraft/inspections/internal/domain"

// Process exit codes, one per failure category.
const (
	ExitOK     = 0
	ExitOther  = 1
	ExitGate   = 2
	ExitConfig = 3
	ExitEngine = 4
	ExitReport = 5
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch domain.ClassifyFailure(err) {
	case domain.FailureNone:
		return ExitOK
	case domain.FailureGate:
		return ExitGate
	case domain.FailureConfig:
		return ExitConfig
	case domain.FailureEngine:
		return ExitEngine
	case domain.FailureReport:
		return ExitReport
	default:
		return ExitOther
	}
}
