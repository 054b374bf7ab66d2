/*
Package fetchers provides file fetching functions for local and remote
recipe repositories.

Fetchers supply raw recipe and toolchain registry files to the parsers;
they know nothing about the constraint grammar itself.
*/
package fetchers

import (
	"context"
	"errors"
)

var (
	ErrFileNotFound = errors.New("recipe file not found")
)

// FileFetcher interface defines fetchers methods.
type FileFetcher interface {
	FileContent(ctx context.Context, path string) ([]byte, error)
}

// ByteMapFetcher is used for storing file contents in memory (usefull
// for debugging/testing or for building custom repositories logic)
type ByteMapFetcher struct {
	Files map[string][]byte
}

// FileContent retrieves (if found) []byte contents from it's map using
// path argument as a key.
func (sf ByteMapFetcher) FileContent(ctx context.Context, path string) ([]byte, error) {
	v, ok := sf.Files[path]
	if !ok {
		return nil, ErrFileNotFound
	}
	return v, nil
}
