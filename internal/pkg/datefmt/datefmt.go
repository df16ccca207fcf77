// Package datefmt parses and renders the MM/DD/YYYY HH:mm timestamp
// format used by the announcements API, in the server's local time zone.
package datefmt

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the Go reference layout for MM/DD/YYYY HH:mm.
const Layout = "01/02/2006 15:04"

var pattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}$`)

// Parse converts a MM/DD/YYYY HH:mm string into a local-time timestamp.
// Strings that do not match the pattern or name an impossible calendar
// date (e.g. 02/30) are rejected.
func Parse(s string) (time.Time, error) {
	if !pattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date format, expected MM/DD/YYYY HH:mm, got: %s", s)
	}

	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date value: %s", s)
	}
	return t, nil
}

// Format renders a timestamp as MM/DD/YYYY HH:mm in local time, with
// zero-padded two-digit components. Format(Parse(s)) == s for any valid s.
func Format(t time.Time) string {
	return t.Local().Format(Layout)
}
