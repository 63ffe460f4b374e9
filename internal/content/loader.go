package content

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Format is a content file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for content files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported content format")

//go:embed default.yaml
var defaultContent []byte

// Default returns the embedded catalog.
func Default() *Content {
	c, err := Parse(defaultContent, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded content is invalid: %v", err))
	}
	return c
}

// Load reads content from path: empty means the embedded default, a
// directory is walked as a tree, anything else is a single content file.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat content: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads a YAML, JSON or TOML content file.
func LoadFile(path string) (*Content, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(data, format)
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Parse decodes one content document. YAML and JSON keep the document's
// catalog order; TOML catalogs are ordered by name.
func Parse(data []byte, format Format) (*Content, error) {
	var c Content
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	case FormatJSON:
		err = sonic.Unmarshal(data, &c)
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s content: %w", format, err)
	}

	if format != FormatTOML {
		if c.order, err = documentOrder(data); err != nil {
			return nil, fmt.Errorf("read %s catalog order: %w", format, err)
		}
	}

	c.applyDefaults()
	c.Version = version(data)
	return &c, nil
}

func version(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:6])
}
