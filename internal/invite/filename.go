package invite

import (
	"regexp"
	"strings"
	"time"
)

const (
	maxTitleLen   = 60
	fallbackTitle = "session"
)

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._ -]+`)

// SanitizeTitle reduces a free-text title to a file-name safe segment.
func SanitizeTitle(title string) string {
	s := unsafeFilenameRe.ReplaceAllString(title, "")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	if len(s) > maxTitleLen {
		s = s[:maxTitleLen]
	}
	if s == "" {
		return fallbackTitle
	}
	return s
}

// Filename builds the suggested .ics file name from the title, the local
// start time and the zone label.
func Filename(title string, start time.Time, zone string) string {
	return SanitizeTitle(title) + "_" + start.Format("2006-01-02_1504") + "_" + strings.ReplaceAll(zone, "/", "-") + ".ics"
}
