// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go: cold-path logging helper
//
// Purpose:
//   - Logs infrequent events (startup, journal errors, shutdown) to stderr.
//   - One line per call, "PREFIX: message", no formatting machinery.
//
// ⚠️ Never invoke in hot loops; the pipe and the consumer callback stay silent.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "framepipe/utils"

// DropError logs err under prefix. A nil err logs the bare prefix, which is
// used for tagged markers.
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
		return
	}
	utils.PrintWarning(prefix + "\n")
}

// DropMessage logs a cold-path diagnostic line.
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
