package transform

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"
)

// MapFile applies the MAP(filename) transformation: the file holds
// key=value lines, and the input is looked up as a key.
//
// Dir roots relative filenames (defaults to ".").
type MapFile struct {
	Dir string
}

func (t *MapFile) Transform(ctx context.Context, param, input string) (string, error) {
	dir := t.Dir
	if dir == "" {
		dir = "."
	}

	bs, err := ioutil.ReadFile(dir + "/" + param)
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(bs), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			continue
		}
		if line[:i] == input {
			return line[i+1:], nil
		}
	}

	return "", fmt.Errorf("MAP '%s' has no entry for '%s'", param, input)
}
