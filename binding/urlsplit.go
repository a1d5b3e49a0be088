package binding

import (
	"regexp"
	"strings"
)

// urlPattern recognizes the canonical shape
// scheme://authority/path?query#fragment at the front of an
// out-binding's trailing text, with an optional ":body" suffix.
//
// The grammar reuses ':' as its body separator, so a colon that's
// part of "//", a port, or text after '?'/'#' must not split the
// URL.  This pattern is the documented resolution of that ambiguity.
// A URL with a literal non-port colon in a query value can still
// mis-split; that behavior is kept as is (and tested) rather than
// silently corrected.
var urlPattern = regexp.MustCompile(
	`^((([^:/?#]+):)?(//([^/?#]*))?([^?#:]*)(\?([^#:]*))?(#(.*))?)(:.*)?`)

const (
	urlGroup  = 1
	bodyGroup = 11
)

// splitURL decomposes the text after an out-binding's method into a
// URL, an optional header fragment embedded in the URL, and an
// optional body suffix.
//
// The header fragment is detected by the URL component ending in '}':
// the span from the first '{' to the first '}' is removed from the
// URL and returned without its braces.  The body, when present, is
// everything after the separating ':' (possibly empty).
func splitURL(s string) (url, header, body string, hasBody bool, err error) {
	m := urlPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", "", false, &GrammarError{
			Config: s,
			Want:   "the URL grammar '" + urlPattern.String() + "'",
		}
	}

	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return s[m[2*i]:m[2*i+1]], true
	}

	url, _ = group(urlGroup)

	if strings.HasSuffix(url, "}") {
		if begin := strings.Index(url, "{"); 0 <= begin {
			end := begin + strings.Index(url[begin:], "}")
			header = url[begin+1 : end]
			url = url[:begin]
		}
	}

	if suffix, have := group(bodyGroup); have {
		body = suffix[1:]
		hasBody = true
	}

	return url, header, body, hasBody, nil
}
