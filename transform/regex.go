package transform

import (
	"context"
	"fmt"
	"regexp"
)

// Regex applies the REGEX(pattern) transformation: the pattern is
// matched against the whole input ('.' spans lines), and the first
// capture group -- or the whole match when the pattern has no groups
// -- is the result.
type Regex struct{}

func (t *Regex) Transform(ctx context.Context, param, input string) (string, error) {
	re, err := regexp.Compile(`(?s)^` + param + `$`)
	if err != nil {
		return "", err
	}

	m := re.FindStringSubmatch(input)
	if m == nil {
		return "", fmt.Errorf("REGEX '%s' didn't match the input", param)
	}

	if 1 < len(m) {
		return m[1], nil
	}
	return m[0], nil
}
