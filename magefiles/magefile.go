//go:build mage

// Package main provides build targets for the forecourt project using Mage.
//
// Usage:
//
//	mage build    Compile forecourt binary to bin/
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage clean    Remove build artifacts
//	mage install  Install forecourt to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	binaryName = "forecourt"
	binaryDir  = "bin"
	cmdDir     = "./cmd/forecourt"
)

// Build compiles the forecourt binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install installs the forecourt binary to GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", cmdDir)
}
