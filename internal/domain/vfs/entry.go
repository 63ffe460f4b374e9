package vfs

import "github.com/GriffinCanCode/termfolio/backend/internal/content"

// Entry is a node of the static catalog: a *File or a *Directory.
type Entry interface {
	Name() string
	entry()
}

// File is a read-only catalog file.
type File struct {
	name    string
	content string
}

func (f *File) Name() string    { return f.name }
func (f *File) Content() string { return f.content }
func (*File) entry()            {}

// Directory is a catalog directory with ordered children.
type Directory struct {
	name        string
	description string
	children    []Entry
	index       map[string]Entry
}

func (d *Directory) Name() string        { return d.name }
func (d *Directory) Description() string { return d.description }
func (*Directory) entry()                {}

// Children returns the entries in catalog order.
func (d *Directory) Children() []Entry { return d.children }

// Child looks up a direct child by name.
func (d *Directory) Child(name string) (Entry, bool) {
	e, ok := d.index[name]
	return e, ok
}

// Subdirectory returns the named child if it is a directory.
func (d *Directory) Subdirectory(name string) (*Directory, bool) {
	e, ok := d.index[name]
	if !ok {
		return nil, false
	}
	sub, ok := e.(*Directory)
	return sub, ok
}

func (d *Directory) add(e Entry) {
	d.children = append(d.children, e)
	d.index[e.Name()] = e
}

func newDirectory(name, description string) *Directory {
	return &Directory{name: name, description: description, index: map[string]Entry{}}
}

// Catalog is the typed, immutable view of a content snapshot.
type Catalog struct {
	root *Directory
}

// NewCatalog converts the content source into typed entries. Within a
// directory files come first, then subdirectories, each in catalog order.
func NewCatalog(c *content.Content) *Catalog {
	root := newDirectory("", "")
	for _, name := range c.RootDirs() {
		root.add(buildDirectory(c, []string{name}, name, c.Filesystem[name]))
	}
	return &Catalog{root: root}
}

func buildDirectory(c *content.Content, path []string, name string, spec content.DirSpec) *Directory {
	dir := newDirectory(name, spec.Description)
	files, dirs := c.Children(path, spec)
	for _, f := range files {
		dir.add(&File{name: f, content: spec.Files[f].Content})
	}
	for _, d := range dirs {
		sub := append(append([]string(nil), path...), d)
		dir.add(buildDirectory(c, sub, d, spec.Subdirectories[d]))
	}
	return dir
}

// Root returns the catalog root.
func (c *Catalog) Root() *Directory { return c.root }

// ResolveDirectory walks the catalog from the root. Every segment must name
// an existing directory; "." and ".." are not interpreted here.
func (c *Catalog) ResolveDirectory(path []string) (*Directory, bool) {
	dir := c.root
	for _, seg := range path {
		next, ok := dir.Subdirectory(seg)
		if !ok {
			return nil, false
		}
		dir = next
	}
	return dir, true
}
