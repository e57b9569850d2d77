//go:build mage

// Package main provides build targets for the capitals project using Mage.
//
// Usage:
//
//	mage build       Compile the capitals binary to bin/
//	mage test:all    Run all tests
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Run all tests and write coverage.out
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install capitals to GOPATH/bin
//	mage stats       Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "capitals"
	binaryDir  = "bin"
	cmdDir     = "./cmd/capitals"
	versionVar = "github.com/mesh-intelligence/capitals/pkg/capitals.Version"
)

// ldflags stamps the version from CAPITALS_VERSION or the latest git tag.
func ldflags() string {
	version := os.Getenv("CAPITALS_VERSION")
	if version == "" {
		if tag, err := sh.Output("git", "describe", "--tags", "--always"); err == nil {
			version = strings.TrimPrefix(tag, "v")
		}
	}
	if version == "" {
		return ""
	}
	return "-X " + versionVar + "=" + version
}

// Build compiles the capitals binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.RemoveAll(coverProfile); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
