package finder

import "strings"

// Scan is the simplest in-process finder: walk the root and keep files
// whose raw content contains any term, case-insensitively. Used by tests
// as the no-dependency stand-in for the ripgrep collaborator.
type Scan struct {
	Root string
}

func (s Scan) FindCandidates(terms []string) ([]string, error) {
	files, err := WalkRoot(s.Root)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return files, nil
	}

	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}

	var out []string
	for _, path := range files {
		body, err := readSession(path)
		if err != nil {
			continue
		}
		haystack := strings.ToLower(body)
		for _, t := range lowered {
			if strings.Contains(haystack, t) {
				out = append(out, path)
				break
			}
		}
	}
	return out, nil
}
