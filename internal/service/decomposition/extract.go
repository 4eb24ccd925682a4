package decomposition

import (
	"regexp"
	"strconv"
	"strings"
)

// Best-effort structured extraction from the engine's human-readable reason
// strings, e.g. "FAN-IN pattern (14 counterparties in 72h)" or "Shell network
// chain SHELL-0002 (length 6)". The text is written for analysts, not
// parsers; every miss resolves to a documented default and never to an error.

var (
	counterpartiesRe = regexp.MustCompile(`(\d+)\s+counterparties`)
	chainLengthRe    = regexp.MustCompile(`(?i)length\s+(\d+)`)
)

func mentionsCycle(reasons string) bool {
	return strings.Contains(strings.ToLower(reasons), "cycle")
}

// extractCounterparties returns the counterparty count named in a fan reason,
// or the detection threshold when the text yields nothing.
func extractCounterparties(reasons string) int {
	return extractInt(counterpartiesRe, reasons, defaultCounterparties)
}

// extractChainLength returns the chain length named in a shell reason, or the
// default chain length when the text yields nothing.
func extractChainLength(reasons string) int {
	return extractInt(chainLengthRe, reasons, defaultChainLength)
}

func extractInt(re *regexp.Regexp, text string, fallback int) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return n
}
