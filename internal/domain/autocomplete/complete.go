// Package autocomplete completes command names and directory entries.
package autocomplete

import "strings"

// Kind says what the caller should do with a Result.
type Kind int

const (
	// None means no candidate matched; nothing is shown.
	None Kind = iota
	// Completed means append Suffix to the input.
	Completed
	// List means print Candidates on a fresh line and redraw the input.
	List
)

// Result is the outcome of one Tab press.
type Result struct {
	Kind       Kind
	Suffix     string
	Candidates []string
}

// Entries lists the working directory, optionally only directories or only
// files.
type Entries func(dirsOnly, filesOnly bool) []string

// Complete computes the completion for input, the text before the cursor
// with the prompt and leading whitespace removed. The first word completes
// against vocabulary; later words complete against directory entries,
// directories only after cd and files only after cat.
func Complete(input string, vocabulary []string, entries Entries) Result {
	parts := words(input)
	if len(parts) == 0 {
		return Result{Kind: List, Candidates: union(vocabulary, entries(false, false))}
	}
	prefix := parts[len(parts)-1]

	var pool []string
	if len(parts) == 1 {
		pool = vocabulary
	} else {
		switch strings.ToLower(parts[0]) {
		case "cd":
			pool = entries(true, false)
		case "cat":
			pool = entries(false, true)
		default:
			pool = entries(false, false)
		}
	}

	var matches []string
	for _, c := range pool {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return Result{Kind: None}
	case 1:
		return Result{Kind: Completed, Suffix: matches[0][len(prefix):]}
	default:
		return Result{Kind: List, Candidates: matches}
	}
}

// words splits input on runs of whitespace. Trailing whitespace yields a
// final empty word, the argument about to be typed.
func words(input string) []string {
	parts := strings.Fields(input)
	if len(parts) > 0 && strings.TrimRight(input, " \t") != input {
		parts = append(parts, "")
	}
	return parts
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
