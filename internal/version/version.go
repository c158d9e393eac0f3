// Package version carries the build version, overridable with
// -ldflags "-X ispcr/internal/version.Version=...".
package version

var Version = "dev"
