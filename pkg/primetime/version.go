// Package primetime exposes build metadata for the primetime project.
package primetime

// Version is the current release version, overridable at build time via
// -ldflags "-X github.com/mesh-intelligence/primetime/pkg/primetime.Version=...".
var Version = "0.1.0"
