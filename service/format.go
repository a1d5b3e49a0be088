package service

import (
	"net/url"
	"strings"
	"time"
)

// Substitute rewrites the positional format references that an
// out-binding's URL or body may carry: "%2$s" is the command's text,
// and "%1$tX" is a field of the current time (the Y m d H M S date
// verbs).
//
// With escape set, the command text is query-escaped, which is what a
// URL needs; a body gets the text verbatim.
func Substitute(s, command string, now time.Time, escape bool) string {
	if !strings.Contains(s, "%") {
		return s
	}

	if escape {
		command = url.QueryEscape(command)
	}

	r := strings.NewReplacer(
		"%2$s", command,
		"%1$tY", now.Format("2006"),
		"%1$tm", now.Format("01"),
		"%1$td", now.Format("02"),
		"%1$tH", now.Format("15"),
		"%1$tM", now.Format("04"),
		"%1$tS", now.Format("05"),
	)

	return r.Replace(s)
}
