//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "themegrid"

var Default = Build

// Build compiles the themegrid binary into the repository root
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/themegrid")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over every package
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, "go", "bin")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return sh.Copy(filepath.Join(dir, binary), binary)
}

// Clean removes build output
func Clean() error {
	return sh.Rm(binary)
}
