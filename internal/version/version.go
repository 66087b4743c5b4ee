// Package version holds the build version, overridable at link time
// with -ldflags "-X .../internal/version.Version=v1.2.3".
package version

// Version is the current build version.
var Version = "dev"
