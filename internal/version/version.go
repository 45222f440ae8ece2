// Package version holds the release string; overridden at link time with
// -ldflags "-X ca2ta/internal/version.Version=...".
package version

var Version = "0.1.0"
