package webhook

import (
	"regexp"
	"strings"
)

// Verification probes from the platform carry recognizable synthetic reply
// tokens. Replying to one fails remotely, so they are filtered before any
// network call.
var (
	zeroTokenPattern = regexp.MustCompile(`^0{8,}`)
	fTokenPattern    = regexp.MustCompile(`(?i)^f{8,}`)
)

// IsSyntheticReplyToken reports whether the token is a test/verification
// probe token: eight or more leading zeros, eight or more leading f
// characters, or the literal word "test" anywhere (case-insensitive).
func IsSyntheticReplyToken(token string) bool {
	return zeroTokenPattern.MatchString(token) ||
		fTokenPattern.MatchString(token) ||
		strings.Contains(strings.ToLower(token), "test")
}
