package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// MetaFile holds everything except the filesystem when content is a directory.
	MetaFile = "_content.yaml"
	// DescriptionFile supplies a directory's description.
	DescriptionFile = ".description"
)

type walkedFile struct {
	rel  string
	body string
}

// LoadDir builds content from a directory tree: every subdirectory of root
// becomes a catalog directory, every text file a catalog file. Hidden and
// binary files are skipped.
func LoadDir(root string) (*Content, error) {
	c := &Content{}
	if data, err := os.ReadFile(filepath.Join(root, MetaFile)); err == nil {
		meta, err := Parse(data, FormatYAML)
		if err != nil {
			return nil, err
		}
		c = meta
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", MetaFile, err)
	}

	var (
		mu    sync.Mutex
		dirs  []string
		files []walkedFile
		descs = map[string]string{}
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			mu.Lock()
			dirs = append(dirs, rel)
			mu.Unlock()
			return nil
		}

		if name == DescriptionFile {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			mu.Lock()
			descs[filepath.ToSlash(filepath.Dir(rel))] = strings.TrimSpace(string(data))
			mu.Unlock()
			return nil
		}

		// the catalog root only holds directories
		if strings.HasPrefix(name, ".") || !strings.Contains(rel, "/") || !d.Type().IsRegular() {
			return nil
		}
		if !isText(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		mu.Lock()
		files = append(files, walkedFile{rel: rel, body: string(data)})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content dir: %w", err)
	}

	// parents sort before children
	sort.Strings(dirs)
	c.Filesystem = map[string]DirSpec{}
	for _, rel := range dirs {
		insertDir(c.Filesystem, strings.Split(rel, "/"), descs[rel])
	}
	for _, f := range files {
		insertFile(c.Filesystem, strings.Split(f.rel, "/"), f.body)
	}

	// directory listings are alphabetical
	c.order = nil
	c.applyDefaults()
	c.Version = version([]byte(fmt.Sprintf("%s:%d:%d", root, len(dirs), len(files)) + c.Version))
	return c, nil
}

func insertDir(fs map[string]DirSpec, parts []string, desc string) {
	if len(parts) == 1 {
		d := fs[parts[0]]
		d.Description = desc
		fs[parts[0]] = d
		return
	}

	parent := fs[parts[0]]
	if parent.Subdirectories == nil {
		parent.Subdirectories = map[string]DirSpec{}
	}
	insertDir(parent.Subdirectories, parts[1:], desc)
	fs[parts[0]] = parent
}

func insertFile(fs map[string]DirSpec, parts []string, body string) {
	dir := fs[parts[0]]
	if len(parts) == 2 {
		if dir.Files == nil {
			dir.Files = map[string]FileSpec{}
		}
		dir.Files[parts[1]] = FileSpec{Content: body}
	} else {
		if dir.Subdirectories == nil {
			dir.Subdirectories = map[string]DirSpec{}
		}
		insertFile(dir.Subdirectories, parts[1:], body)
	}
	fs[parts[0]] = dir
}

func isText(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.Size() == 0 {
		return true
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
