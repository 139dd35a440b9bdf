package restic

// RepoStatus classifies the outcome of a repository probe.
type RepoStatus int

const (
	StatusOk RepoStatus = iota
	StatusNoRepository
	StatusLocked
	StatusInvalidKey
)

func (s RepoStatus) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusNoRepository:
		return "no repository"
	case StatusLocked:
		return "locked"
	case StatusInvalidKey:
		return "invalid key"
	default:
		return "unknown"
	}
}

// Engine exit codes, per the restic documentation (restic >= 0.17). Porting
// to another engine means revisiting exactly these constants.
const (
	// readErrorExitCode signals that some source files could not be read
	// but the snapshot itself was completed. Backup treats it as success.
	readErrorExitCode = 3

	exitNoRepository = 10
	exitLocked       = 11
	exitInvalidKey   = 12
)

// classifyStatus maps a probe exit code to a RepoStatus. The second return
// is false for codes outside the documented probe contract.
func classifyStatus(code int) (RepoStatus, bool) {
	switch code {
	case 0:
		return StatusOk, true
	case exitNoRepository:
		return StatusNoRepository, true
	case exitLocked:
		return StatusLocked, true
	case exitInvalidKey:
		return StatusInvalidKey, true
	default:
		return 0, false
	}
}
