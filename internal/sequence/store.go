package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadSequence reads a single sequence from disk.
func LoadSequence(path string) (*Sequence, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sequence path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sequence %s: %w", path, err)
	}

	seq, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse sequence %s: %w", path, err)
	}
	return seq, nil
}

// LoadSequencesFromDir loads all sequences from a directory, sorted by
// label. A missing directory yields an empty list.
func LoadSequencesFromDir(dir string) ([]*Sequence, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Sequence{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Sequence{}, nil
		}
		return nil, fmt.Errorf("read sequences dir %s: %w", dir, err)
	}

	sequences := make([]*Sequence, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		seq, err := LoadSequence(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}

	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].Label() < sequences[j].Label()
	})

	return sequences, nil
}

// SaveSequence writes a sequence into dir as <escaped-label>.yaml, creating
// the directory if needed. It returns the path written.
func SaveSequence(dir string, seq *Sequence) (string, error) {
	if seq == nil {
		return "", fmt.Errorf("sequence is required")
	}
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("sequence dir is required")
	}

	data, err := Marshal(seq)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create sequences dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, escapeFileName(seq.Label())+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write sequence %s: %w", path, err)
	}
	return path, nil
}

// SearchPaths returns sequence search directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 2)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".sequent", "sequences"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "sequent", "sequences"))
	}

	return paths
}

// LoadSequencesFromSearchPaths loads sequences from the search paths with
// first-hit precedence on the label.
func LoadSequencesFromSearchPaths(projectDir string) ([]*Sequence, error) {
	seen := make(map[string]*Sequence)
	order := make([]string, 0)

	for _, path := range SearchPaths(projectDir) {
		sequences, err := LoadSequencesFromDir(path)
		if err != nil {
			return nil, err
		}
		for _, seq := range sequences {
			if _, exists := seen[seq.Label()]; exists {
				continue
			}
			seen[seq.Label()] = seq
			order = append(order, seq.Label())
		}
	}

	resolved := make([]*Sequence, 0, len(order))
	for _, label := range order {
		resolved = append(resolved, seen[label])
	}

	return resolved, nil
}
