// Package id provides ID generation for sessions and connections.
//
// Session and connection IDs are prefixed ULIDs (sess_*, conn_*): sortable by
// creation time and readable in logs. Client IDs identify a browser across
// reconnects and come from the client itself, so they are only validated and
// minted here, never parsed.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// SessionID identifies one live terminal session.
type SessionID string

// ConnID identifies one websocket connection.
type ConnID string

// ClientID identifies a browser (or console user) owning durable state.
type ClientID string

const (
	SessionPrefix = "sess"
	ConnPrefix    = "conn"
)

// maxClientIDLen bounds client supplied identifiers used as storage namespaces.
const maxClientIDLen = 64

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewConnID generates a new connection ID
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(ConnPrefix))
}

// NewClientID mints a client ID for a browser that did not present one.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

func (id SessionID) String() string { return string(id) }
func (id ConnID) String() string    { return string(id) }
func (id ClientID) String() string  { return string(id) }

// ClientIDOrNew returns raw as a ClientID when it is usable as a storage
// namespace, otherwise a freshly minted one.
func ClientIDOrNew(raw string) ClientID {
	if ValidClientID(raw) {
		return ClientID(raw)
	}
	return NewClientID()
}

// ValidClientID reports whether raw is a safe namespace: non-empty, bounded,
// and made of letters, digits, '-' and '_' only.
func ValidClientID(raw string) bool {
	if raw == "" || len(raw) > maxClientIDLen {
		return false
	}
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// IsValid checks if an ID string is a valid ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID string, with or without a type prefix.
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// Timestamp extracts the creation time from a (prefixed) ULID.
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
