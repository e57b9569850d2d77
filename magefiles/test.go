//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets (all, race, cover).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs all tests with the race detector. The clock board and the
// store are exercised from several goroutines.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs all tests and prints per-function coverage.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}
