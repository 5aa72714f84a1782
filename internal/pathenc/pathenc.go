// Package pathenc converts between filesystem project paths and the
// directory names Claude Code uses to store their session logs.
//
// The on-disk convention replaces every path separator with '-', so
// /Users/amar/repos/project is stored under -Users-amar-repos-project.
// The encoding is lossy: a path segment that itself contains '-' is
// indistinguishable from a separator after encoding. Decode treats every
// delimiter as a separator, which is correct for the common case and
// documented to be wrong for segments containing literal dashes.
package pathenc

import "strings"

// Delimiter is the character the storage convention substitutes for '/'.
const Delimiter = '-'

// Encode maps a project path to its log directory name.
func Encode(path string) string {
	return strings.ReplaceAll(path, "/", string(Delimiter))
}

// Decode maps a log directory name back to a project path. It is total:
// any input yields a path, best-effort for names whose original segments
// contained the delimiter. Encode(Decode(d)) == d for every dir name d.
func Decode(dir string) string {
	if dir == "" {
		return ""
	}
	return strings.ReplaceAll(dir, string(Delimiter), "/")
}
