package wbf

import (
	"regexp"
	"strings"
)

// Decode-text token classifiers. The message grammar is positional:
// the sender's callsign is the second token of an exchange and the
// token after CQ/QRZ (plus an optional directive like DX or NA).
var (
	reReport = regexp.MustCompile(`^R?[-+][0-9]{2}$`)
	reLoc    = regexp.MustCompile(`^[A-R]{2}[0-9]{2}([A-Xa-x]{2}([0-9]{2})?)?$`)
	reCall   = regexp.MustCompile(`^(([A-Z])|([A-Z][A-Z0-9])|([0-9][A-Z]))[0-9][A-Z]{1,3}$`)
)

// IsLocator reports whether s is a Maidenhead locator (4, 6 or 8
// characters).
func IsLocator(s string) bool {
	return reLoc.MatchString(s)
}

// IsReport reports whether s is a signal report like -02, +20 or R+20.
func IsReport(s string) bool {
	return reReport.MatchString(s)
}

// IsStandardCall reports whether s is a standard-form callsign.
func IsStandardCall(s string) bool {
	return reCall.MatchString(s)
}

// ParseMessage extracts the sender's callsign from the free text of a
// decode, or "" when no callsign token is recognizable. Nonstandard
// calls keep their <angle brackets>; the caller strips them.
//
// The shapes handled, second token marked:
//
//	CQ K1ABC FN42          the CQ caller
//	CQ DX K1ABC FN42       directed CQ
//	JA1XXX YL2XXX R-18     report exchange
//	UB9XXX OH1XXX KP20     locator exchange
//	IZ7XXX EW4XXX 73 / RR73
//
// Trailing marginal-decode markers ("a1", "?") are ignored. Messages
// containing ';' carry multiple decodes and are skipped entirely.
func ParseMessage(message string) string {
	if message == "" || strings.Contains(message, ";") {
		return ""
	}
	l := strings.Fields(message)
	// Strip off marginal decode info
	if len(l) > 0 && strings.HasPrefix(l[len(l)-1], "a") {
		l = l[:len(l)-1]
	}
	if len(l) > 0 && l[len(l)-1] == "?" {
		l = l[:len(l)-1]
	}
	if len(l) == 0 {
		return ""
	}

	if l[0] == "CQ" || l[0] == "QRZ" {
		// CQ DX or similar
		if len(l) == 4 && len(l[2]) >= 3 {
			return l[2]
		}
		// CQ DX or something without locator
		if len(l) == 3 && len(l[2]) != 4 && len(l[1]) <= 4 {
			if len(l[2]) >= 3 {
				return l[2]
			}
		}
		if len(l) >= 2 && len(l[1]) >= 3 {
			return l[1]
		}
	}
	if len(l) == 2 && len(l[1]) >= 3 {
		return l[1]
	}
	if len(l) < 2 {
		return ""
	}
	if len(l) == 4 && l[2] == "R" && len(l[1]) >= 3 {
		return l[1]
	}
	if len(l) == 3 && len(l[1]) >= 3 {
		if len(l[1]) > 3 || IsStandardCall(l[1]) {
			return l[1]
		}
		if IsLocator(l[2]) {
			return l[1]
		}
		if IsReport(l[2]) {
			return l[1]
		}
	}
	return ""
}

// ExtractCallsign runs ParseMessage and normalizes the token for
// lookup: bracket markers around nonstandard calls are removed and
// the truncated-call placeholder "..." is rejected.
func ExtractCallsign(message string) string {
	call := ParseMessage(message)
	call = strings.TrimPrefix(call, "<")
	call = strings.TrimSuffix(call, ">")
	if call == "..." {
		return ""
	}
	return call
}
