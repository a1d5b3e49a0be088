package service

import (
	"testing"
	"time"
)

func TestSubstitute(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 5, 7, 0, time.UTC)

	cases := []struct {
		s       string
		command string
		escape  bool
		want    string
	}{
		{
			s:       "http://x.org/l?s=%2$s",
			command: "ON",
			escape:  true,
			want:    "http://x.org/l?s=ON",
		},
		{
			// Query escaping for URLs.
			s:       "http://x.org/l?s=%2$s",
			command: "a b&c",
			escape:  true,
			want:    "http://x.org/l?s=a+b%26c",
		},
		{
			// Bodies get the text verbatim.
			s:       "set to %2$s",
			command: "a b&c",
			want:    "set to a b&c",
		},
		{
			s:    "http://x.org/log?d=%1$tY-%1$tm-%1$td&t=%1$tH:%1$tM:%1$tS",
			want: "http://x.org/log?d=2026-08-25&t=09:05:07",
		},
		{
			// No references: untouched.
			s:    "http://x.org/plain",
			want: "http://x.org/plain",
		},
	}

	for _, c := range cases {
		if got := Substitute(c.s, c.command, now, c.escape); got != c.want {
			t.Fatalf("'%s': got '%s', wanted '%s'", c.s, got, c.want)
		}
	}
}
