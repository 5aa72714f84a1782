// Package finder discovers candidate session files for a query. Discovery
// is a coarse first-pass filter; precise matching happens later during
// summarization and timeline reconstruction.
//
// Finder is a capability interface so the default ripgrep subprocess can be
// swapped for an in-process implementation in tests or via config.
package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Finder returns the paths of session files likely to contain any of the
// query terms. An empty result is not an error.
type Finder interface {
	FindCandidates(terms []string) ([]string, error)
}

// sessionExts are the file suffixes treated as session logs.
var sessionExts = []string{".jsonl", ".jsonl.zst", ".jsonl.gz"}

func isSessionFile(path string) bool {
	for _, ext := range sessionExts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// WalkRoot lists every session file under root, skipping subagent
// transcripts and unreadable directories.
func WalkRoot(root string) ([]string, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("session root not found: %s", root)
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if filepath.Base(path) == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if isSessionFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Resolve locates a session file by id under root. The id is the file name
// without extension; compressed variants are found too.
func Resolve(root, sessionID string) (string, error) {
	files, err := WalkRoot(root)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		base := filepath.Base(f)
		for _, ext := range sessionExts {
			if base == sessionID+ext {
				return f, nil
			}
		}
	}
	return "", fmt.Errorf("session not found: %s", sessionID)
}
