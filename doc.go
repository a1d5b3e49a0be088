// Package httpbind turns per-item HTTP binding strings into running
// HTTP requests and polls.
//
// The core grammar and descriptor code is in package 'binding', the
// engine is in package 'service', and the daemon is in cmd/httpbindd.
package httpbind
