package binding

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Comcast/httpbind/item"
)

// Example binding configuration strings:
//
//   >[ON:POST:http://www.domain.org/home/lights/23871?status=on] >[OFF:POST:http://www.domain.org/home/lights/23871?status=off]
//   <[http://www.domain.org/weather/city/daily:60000:REGEX(.*)]
//   >[*:POST:http://www.domain.org/home/lights/23871?status=%2$s{AuthKey=somekey&timerange=day}]
//   <[https://www.flukso.net/api/sensor/xxxx?interval=daily{X-Token=mytoken&X-version=1.0}:60000:REGEX(.*?<title>(.*?)</title>(.*))]

var (
	// segmentPattern matches one <[...] or >[...] block.
	segmentPattern = regexp.MustCompile(`(<|>)\[(.*?)\](\s|$)`)

	// configShape is the whole-string check: a configuration must
	// consist of bracketed segments (the lazy inner group spans
	// any middle segments when anchored).
	configShape = regexp.MustCompile(`^(<|>)\[(.*)\]\s?$`)

	// outPattern splits an out-binding segment into command,
	// method, and trailing URL-and-body text.
	outPattern = regexp.MustCompile(`^(.*?):([A-Z]*):(.*)$`)
)

const (
	inShape  = `the in-binding grammar 'url{headers}:refreshMillis:transformation'`
	outShape = `the out-binding grammar 'command:METHOD:url'`
)

// Parse parses a full binding configuration string into the item's
// descriptor.
//
// Segments are processed left to right; a later segment whose key
// collides with an earlier one wins.  Any segment that fails aborts
// the whole parse: no partial descriptors.
func Parse(it *item.Item, config string) (*Config, error) {
	if !configShape.MatchString(config) {
		return nil, &GrammarError{
			Config: config,
			Want:   "the segment grammar '" + segmentPattern.String() + "'",
		}
	}

	c := newConfig(it)

	for _, m := range segmentPattern.FindAllStringSubmatch(config, -1) {
		var (
			direction = m[1]
			part      = m[2]

			err error
		)
		switch direction {
		case "<":
			err = parseInSegment(part, c)
		case ">":
			err = parseOutSegment(it, part, c)
		default:
			// The pattern should make this unreachable.
			err = &GrammarError{
				Config: config,
				Want:   "a segment starting with '<' or '>'",
			}
		}
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// parseInSegment parses url{headers}:refreshMillis:transformation.
//
// The split point is the first ':' that isn't followed by "//" and
// that is followed by digits and another ':'.  That scan is the
// explicit form of the historical pattern
// (.*?)(\{.*\})?:(?!//)(\d*):(.*), whose lookahead Go's regexp
// doesn't support.  In particular a ':' introducing a port number
// doesn't split, because the character after the port digits is not
// another ':'.
func parseInSegment(part string, c *Config) error {
	url, header, digits, transformation, ok := splitInSegment(part)
	if !ok {
		return &GrammarError{Config: part, Want: inShape}
	}

	millis, err := strconv.Atoi(digits)
	if err != nil {
		return &GrammarError{
			Config: part,
			Want:   "a non-negative refresh interval in " + inShape,
		}
	}

	// The transformation is normalized to the same "name=param"
	// form used for out-binding bodies; unrecognized text is kept
	// verbatim.
	t := classifyTransformation(unescapeQuotes(transformation, `"`))

	c.put(PollKey, &Element{
		URL:            unescapeQuotes(url, ""),
		Headers:        parseHeaders(header),
		RefreshMillis:  millis,
		Transformation: t,
	})

	return nil
}

func splitInSegment(s string) (url, header, digits, transformation string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != ':' || strings.HasPrefix(s[i+1:], "//") {
			continue
		}
		j := i + 1
		for j < len(s) && '0' <= s[j] && s[j] <= '9' {
			j++
		}
		if len(s) <= j || s[j] != ':' {
			continue
		}

		url = s[:i]
		if strings.HasSuffix(url, "}") {
			if begin := strings.Index(url, "{"); 0 <= begin {
				header = url[begin:]
				url = url[:begin]
			}
		}

		return url, header, s[i+1 : j], s[j+1:], true
	}
	return "", "", "", "", false
}

// parseOutSegment parses command:METHOD:urlAndOptionalBody.
func parseOutSegment(it *item.Item, part string, c *Config) error {
	m := outPattern.FindStringSubmatch(part)
	if m == nil {
		return &GrammarError{Config: part, Want: outShape}
	}

	key, err := ResolveCommand(it, m[1])
	if err != nil {
		return err
	}

	url, header, body, hasBody, err := splitURL(unescapeQuotes(m[3], ""))
	if err != nil {
		return err
	}

	e := &Element{
		Method:  m[2],
		URL:     url,
		Headers: parseHeaders(header),
	}

	if e.Method == "POST" && hasBody {
		e.Transformation, e.Body = classifyBody(body)
	}

	c.put(key, e)

	return nil
}

// unescapeQuotes rewrites literal \" sequences, which an author needs
// in order to put a quote inside an item file's quoted binding
// string.
func unescapeQuotes(s, with string) string {
	return strings.Replace(s, `\"`, with, -1)
}
