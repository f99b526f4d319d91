// SPDX-License-Identifier: MIT
package gitx

import "strings"

// Failure classes reported on action outcomes.
const (
	ClassAuth          = "auth"
	ClassNetwork       = "network"
	ClassTimeout       = "timeout"
	ClassCorrupt       = "corrupt"
	ClassMissingRemote = "missing_remote"
	ClassConflict      = "conflict"
	ClassDirty         = "dirty"
	ClassUnknown       = "unknown"
)

// ClassifyFailure maps a failed invocation into a broad actionable category.
// It returns "" for successful results.
func ClassifyFailure(res Result) string {
	if res.OK() {
		return ""
	}
	return ClassifyText(strings.Join(res.Stderr, "\n") + "\n" + strings.Join(res.Stdout, "\n"))
}

// ClassifyText categorizes git error output.
func ClassifyText(text string) string {
	msg := strings.ToLower(text)
	switch {
	case containsAny(msg, "permission denied", "authentication failed", "access denied", "publickey", "could not read username", "credential"):
		return ClassAuth
	case containsAny(msg, "could not resolve host", "network is unreachable", "connection timed out", "failed to connect", "temporary failure in name resolution", "tls handshake timeout", "connection refused"):
		return ClassNetwork
	case containsAny(msg, "deadline exceeded", "timed out", "timeout", "signal: killed"):
		return ClassTimeout
	case containsAny(msg, "not a git repository", "bad object", "corrupt", "object file"):
		return ClassCorrupt
	case containsAny(msg, "repository not found", "couldn't find remote ref", "remote ref does not exist", "no such remote", "no configured push destination", "no upstream", "no tracking information", "has no upstream branch"):
		return ClassMissingRemote
	case containsAny(msg, "conflict", "could not apply", "needs merge"):
		return ClassConflict
	case containsAny(msg, "unstaged changes", "uncommitted changes", "would be overwritten", "please commit or stash"):
		return ClassDirty
	default:
		return ClassUnknown
	}
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
