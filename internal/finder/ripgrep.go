package finder

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Ripgrep shells out to rg for the coarse filter. It lists files matching
// any query term, case-insensitively, under Root.
type Ripgrep struct {
	Root string
	Bin  string // "" means "rg" from PATH
}

func (r Ripgrep) bin() string {
	if r.Bin != "" {
		return r.Bin
	}
	return "rg"
}

// Available reports whether the ripgrep executable can be found.
func (r Ripgrep) Available() bool {
	_, err := exec.LookPath(r.bin())
	return err == nil
}

// rgArgs builds the rg invocation: list matching files case-insensitively,
// restricted to session logs. --search-zip makes rg decompress .zst/.gz
// logs on the fly, so archived sessions stay candidates; the glob has to
// accept their suffixed names too.
func rgArgs(pattern string) []string {
	return []string{"-li", "--search-zip", "--glob", "*.jsonl*", pattern}
}

// FindCandidates runs `rg -li` over the session root. A no-match exit
// (status 1) yields an empty result; a missing executable or any other
// failure is returned as an error for the caller to degrade on.
func (r Ripgrep) FindCandidates(terms []string) ([]string, error) {
	if len(terms) == 0 {
		return WalkRoot(r.Root)
	}

	pattern := strings.Join(terms, "|")
	cmd := exec.Command(r.bin(), rgArgs(pattern)...)
	cmd.Dir = r.Root

	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return nil, nil // rg found nothing
		}
		return nil, fmt.Errorf("ripgrep: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, filepath.Join(r.Root, line))
	}
	return files, nil
}
