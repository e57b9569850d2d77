// Package capitals carries build information for the capitals binary.
package capitals

// Version is the release version. Builds override it with
// -ldflags "-X github.com/mesh-intelligence/capitals/pkg/capitals.Version=...".
var Version = "0.1.0"
