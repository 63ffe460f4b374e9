package content

import (
	"sort"
	"strings"
)

// Content is one immutable snapshot of the static content source.
type Content struct {
	Filesystem map[string]DirSpec `json:"filesystem" yaml:"filesystem" toml:"filesystem"`
	Visible    Visible            `json:"visible" yaml:"visible" toml:"visible"`
	Hidden     Hidden             `json:"hidden" yaml:"hidden" toml:"hidden"`
	Commands   Commands           `json:"commands" yaml:"commands" toml:"commands"`
	Prompt     Prompt             `json:"prompt" yaml:"prompt" toml:"prompt"`
	Intro      Intro              `json:"intro" yaml:"intro" toml:"intro"`

	// Version identifies the bytes the snapshot was built from.
	Version string `json:"-" yaml:"-" toml:"-"`

	order order
}

// DirSpec is a directory as written in the content source.
type DirSpec struct {
	Description    string              `json:"description" yaml:"description" toml:"description"`
	Files          map[string]FileSpec `json:"files" yaml:"files" toml:"files"`
	Subdirectories map[string]DirSpec  `json:"subdirectories" yaml:"subdirectories" toml:"subdirectories"`
}

// FileSpec is a file body.
type FileSpec struct {
	Content string `json:"content" yaml:"content" toml:"content"`
}

// Visible holds the canned responses printed by built-in commands.
type Visible struct {
	Help        string `json:"help" yaml:"help" toml:"help"`
	Unsupported string `json:"unsupported" yaml:"unsupported" toml:"unsupported"`
	Unknown     string `json:"unknown" yaml:"unknown" toml:"unknown"`
	About       string `json:"about" yaml:"about" toml:"about"`
}

// Hidden holds content that is never listed, only discovered.
type Hidden struct {
	Links []LinkSpec `json:"links" yaml:"links" toml:"links"`
}

// LinkSpec is one activatable keyword.
type LinkSpec struct {
	Type        string `json:"type" yaml:"type" toml:"type"` // "URL" or anything else for text
	Value       string `json:"value" yaml:"value" toml:"value"`
	Key         string `json:"key" yaml:"key" toml:"key"`
	Color       string `json:"color" yaml:"color" toml:"color"`
	StartOffset int    `json:"startOffset" yaml:"startOffset" toml:"startOffset"`
	EndOffset   int    `json:"endOffset" yaml:"endOffset" toml:"endOffset"`
}

// Commands configures autocomplete and the unsupported list.
type Commands struct {
	Vocabulary  []string `json:"vocabulary" yaml:"vocabulary" toml:"vocabulary"`
	Unsupported []string `json:"unsupported" yaml:"unsupported" toml:"unsupported"`
}

// Prompt configures the shell prompt.
type Prompt struct {
	User string `json:"user" yaml:"user" toml:"user"`
}

// Intro configures the typed welcome banner.
type Intro struct {
	Greeting string     `json:"greeting" yaml:"greeting" toml:"greeting"`
	Tagline  string     `json:"tagline" yaml:"tagline" toml:"tagline"`
	Menu     []MenuItem `json:"menu" yaml:"menu" toml:"menu"`
}

// MenuItem is one cell of the intro menu box.
type MenuItem struct {
	Icon        string `json:"icon" yaml:"icon" toml:"icon"`
	Heading     string `json:"heading" yaml:"heading" toml:"heading"`
	Color       string `json:"color" yaml:"color" toml:"color"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

var (
	defaultVocabulary  = []string{"ls", "ls -l", "cat", "cd", "pwd", "clear", "cls", "help", "about", "tree", "echo", "whoami"}
	defaultUnsupported = []string{"sudo game", "sudo", "mkdir", "rm", "cp", "mv", "grep", "find", "chmod", "chown"}
)

const (
	defaultUser    = "portfolio@vishal.varshney"
	defaultUnknown = "Command not found. Type 'help' to see available commands."
	defaultNotImpl = "This command is recognized but not available in this terminal."
)

func (c *Content) applyDefaults() {
	if c.Filesystem == nil {
		c.Filesystem = map[string]DirSpec{}
	}
	if len(c.Commands.Vocabulary) == 0 {
		c.Commands.Vocabulary = append([]string(nil), defaultVocabulary...)
	}
	if c.Commands.Unsupported == nil {
		c.Commands.Unsupported = append([]string(nil), defaultUnsupported...)
	}
	if c.Prompt.User == "" {
		c.Prompt.User = defaultUser
	}
	if c.Visible.Unknown == "" {
		c.Visible.Unknown = defaultUnknown
	}
	if c.Visible.Unsupported == "" {
		c.Visible.Unsupported = defaultNotImpl
	}
}

// order records the document order of catalog children, keyed by the
// slash-joined directory path ("" is the root).
type order map[string]childOrder

type childOrder struct {
	files []string
	dirs  []string
}

// RootDirs returns the top-level directory names in catalog order.
func (c *Content) RootDirs() []string {
	return ordered(c.order[""].dirs, keys(c.Filesystem))
}

// Children returns the file and subdirectory names of the directory at path
// (segments from the root) in catalog order.
func (c *Content) Children(path []string, dir DirSpec) (files, dirs []string) {
	o := c.order[strings.Join(path, "/")]
	return ordered(o.files, keys(dir.Files)), ordered(o.dirs, keys(dir.Subdirectories))
}

// ordered returns names in the recorded order, followed by any names the
// record missed in sorted order.
func ordered(recorded []string, names []string) []string {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	out := make([]string, 0, len(names))
	for _, n := range recorded {
		if present[n] {
			out = append(out, n)
			delete(present, n)
		}
	}

	rest := make([]string, 0, len(present))
	for n := range present {
		rest = append(rest, n)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
