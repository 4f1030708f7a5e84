package task

import internalstrings "github.com/amonks/taskagent/internal/strings"

func normalizeStatus(status Status) Status {
	return Status(internalstrings.NormalizeLowerTrimSpace(string(status)))
}

func normalizePriority(priority Priority) Priority {
	return Priority(internalstrings.NormalizeLowerTrimSpace(string(priority)))
}
