package installer

// State is a step of an installation run.
type State int

// States in the order a successful update visits them.
const (
	StateStart State = iota
	StateReadInstalled
	StateResolveLatest
	StateUpToDate
	StateStaleDetected
	StateFetchAndPrepare
	StateCleanup
	StateApplyContent
	StateVerifyAuxiliaryAssets
	StateWriteInstalledMarker
	StateDone
	StateFailed
)

//nolint:gochecknoglobals // Lookup table for String.
var stateNames = [...]string{
	StateStart:                 "start",
	StateReadInstalled:         "read_installed",
	StateResolveLatest:         "resolve_latest",
	StateUpToDate:              "up_to_date",
	StateStaleDetected:         "stale_detected",
	StateFetchAndPrepare:       "fetch_and_prepare",
	StateCleanup:               "cleanup",
	StateApplyContent:          "apply_content",
	StateVerifyAuxiliaryAssets: "verify_auxiliary_assets",
	StateWriteInstalledMarker:  "write_installed_marker",
	StateDone:                  "done",
	StateFailed:                "failed",
}

// String returns the snake_case state name used in logs.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateUpToDate || s == StateDone || s == StateFailed
}
