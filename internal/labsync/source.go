package labsync

import (
	"errors"
	"strings"
)

// ErrInvalidRepoName is returned when a URL does not yield a usable
// directory name.
var ErrInvalidRepoName = errors.New("lab source URL has no repository name")

// Source identifies a lab repository and the version to test.
type Source struct {
	URL string
	// Version is a branch, tag or commit. Empty keeps the default branch tip.
	Version string
}

// RepoName returns the cache directory name for url: the final
// "/"-separated segment with one trailing ".git" removed.
//
// Distinct URLs that end in the same segment share a name.
func RepoName(url string) string {
	name := url[strings.LastIndex(url, "/")+1:]
	return strings.TrimSuffix(name, ".git")
}

func validRepoName(name string) error {
	switch name {
	case "", ".", "..":
		return ErrInvalidRepoName
	}
	return nil
}
