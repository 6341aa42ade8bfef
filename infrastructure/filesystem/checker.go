package filesystem

import (
	"os"

	"drive-image-upload/domain/credentials"
)

// Checker implements credentials.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if path exists and is a regular file
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Ensure Checker implements credentials.FileChecker
var _ credentials.FileChecker = (*Checker)(nil)
