package segmenter

import (
	"regexp"
	"strconv"
	"time"
)

// timestampFormat is the human-readable replacement for epoch markers,
// millisecond precision.
const timestampFormat = "2006-01-02 15:04:05.000"

var (
	endMsPattern   = regexp.MustCompile(`&endMs=\d{13}`)
	startMsPattern = regexp.MustCompile(`#?startMs\s*[:=]\s*(\d{13})`)
)

// NormalizeTimestamps rewrites raw millisecond-epoch markers into a
// human-readable date-time string in the given zone. End-time markers are
// dropped entirely.
//
// The rewrite is idempotent: once replaced, the text no longer matches the
// 13-digit pattern, so repeated runs are no-ops.
func NormalizeTimestamps(text string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	text = endMsPattern.ReplaceAllString(text, "")

	return startMsPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := startMsPattern.FindStringSubmatch(match)
		ms, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			return match
		}
		return time.UnixMilli(ms).In(loc).Format(timestampFormat)
	})
}
