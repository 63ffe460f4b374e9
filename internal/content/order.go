package content

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// documentOrder re-reads a YAML or JSON document as ordered maps to recover
// the order directories and files were written in. Go maps drop it.
func documentOrder(data []byte) (order, error) {
	var root yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}

	o := order{}
	fs, ok := lookup(root, "filesystem")
	if !ok {
		return o, nil
	}

	var top childOrder
	for _, item := range fs {
		name := fmt.Sprint(item.Key)
		top.dirs = append(top.dirs, name)
		if dir, ok := item.Value.(yaml.MapSlice); ok {
			walkOrder(o, []string{name}, dir)
		}
	}
	o[""] = top
	return o, nil
}

func walkOrder(o order, path []string, dir yaml.MapSlice) {
	var co childOrder
	if files, ok := lookup(dir, "files"); ok {
		for _, f := range files {
			co.files = append(co.files, fmt.Sprint(f.Key))
		}
	}
	if subs, ok := lookup(dir, "subdirectories"); ok {
		for _, s := range subs {
			name := fmt.Sprint(s.Key)
			co.dirs = append(co.dirs, name)
			if sub, ok := s.Value.(yaml.MapSlice); ok {
				walkOrder(o, append(append([]string(nil), path...), name), sub)
			}
		}
	}
	o[strings.Join(path, "/")] = co
}

func lookup(m yaml.MapSlice, key string) (yaml.MapSlice, bool) {
	for _, item := range m {
		if fmt.Sprint(item.Key) == key {
			v, ok := item.Value.(yaml.MapSlice)
			return v, ok
		}
	}
	return nil, false
}
