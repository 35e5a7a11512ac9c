// Package images maps an event id and filename to a static file path
// under a fixed root. Pure path construction; existence is left to the
// file server.
package images

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrInvalidPath = errors.New("invalid image path")

type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve returns the on-disk path for an event image. Components that
// would escape the root (separators, dot-dot) are rejected.
func (r *Resolver) Resolve(eventID, filename string) (string, error) {
	if !safeComponent(eventID) || !safeComponent(filename) {
		return "", ErrInvalidPath
	}
	return filepath.Join(r.root, eventID, filename), nil
}

func safeComponent(value string) bool {
	if value == "" || value == "." || value == ".." {
		return false
	}
	if strings.ContainsAny(value, `/\`) {
		return false
	}
	return true
}
