package links

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registry() *Registry {
	return NewRegistry([]content.LinkSpec{
		{Type: "URL", Key: "GitHub", Value: "https://github.com/me"},
		{Type: "other", Key: "About", Value: "about text", Color: "yellow", StartOffset: 1, EndOffset: -1},
		{Type: "URL", Key: ""},
	})
}

func TestNewRegistry(t *testing.T) {
	r := registry()
	require.Len(t, r.Entries(), 2)
	assert.Equal(t, KindURL, r.Entries()[0].Kind)
	assert.Equal(t, KindText, r.Entries()[1].Kind)
}

func TestScanWholeWord(t *testing.T) {
	r := registry()

	found := r.Scan(4, "Read About me", nil)
	require.Len(t, found, 1)
	assert.Equal(t, Link{Entry: r.Entries()[1], Row: 4, Start: 5, End: 10, Text: "About"}, found[0])

	assert.Empty(t, r.Scan(0, "AboutUs is one word", nil))
	assert.Empty(t, r.Scan(0, "my_about page", nil))
	assert.Empty(t, r.Scan(0, "about2", nil))
}

func TestScanCaseInsensitiveAndRepeated(t *testing.T) {
	r := registry()

	found := r.Scan(0, "about, ABOUT.", nil)
	require.Len(t, found, 2)
	assert.Equal(t, 0, found[0].Start)
	assert.Equal(t, "ABOUT", found[1].Text)
	assert.Equal(t, 7, found[1].Start)
}

func TestScanVisualColumns(t *testing.T) {
	r := registry()

	// styled text counts zero columns, the emoji counts two
	found := r.Scan(0, "\x1b[93m📖 About\x1b[0m", nil)
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].Start)
	assert.Equal(t, 8, found[0].End)
}

func TestScanColorOffsets(t *testing.T) {
	r := registry()

	var asked []int
	colored := func(index int) bool {
		asked = append(asked, index)
		return true
	}

	found := r.Scan(0, "📖 About", colored)
	require.Len(t, found, 1)
	assert.Equal(t, []int{2}, asked, "cell lookups use rune indexes")
	assert.Equal(t, 4, found[0].Start)
	assert.Equal(t, 7, found[0].End)

	// entries without a color never shift
	found = r.Scan(0, "GitHub", colored)
	require.Len(t, found, 1)
	assert.Equal(t, 0, found[0].Start)
	assert.Equal(t, 6, found[0].End)
}

type grid map[int]string

func (g grid) Line(row int) string { return g[row] }
func (g grid) Colored(int, int) bool {
	return false
}

func TestProvider(t *testing.T) {
	g := grid{
		0: "portfolio@host ~$ cat About",
		1: "See About and GitHub",
	}
	p := NewProvider(registry(), g, "portfolio@host")

	assert.Empty(t, p.LinksAt(0), "prompt rows are not annotated")
	assert.Len(t, p.LinksAt(1), 2)

	l, ok := p.At(1, 15)
	require.True(t, ok)
	assert.Equal(t, "GitHub", l.Text)

	_, ok = p.At(1, 3)
	assert.False(t, ok)
}

type mockActivator struct {
	mock.Mock
}

func (m *mockActivator) OpenURL(url string)    { m.Called(url) }
func (m *mockActivator) WriteText(text string) { m.Called(text) }

func TestActivate(t *testing.T) {
	r := registry()
	a := &mockActivator{}
	a.On("OpenURL", "https://github.com/me").Once()
	a.On("WriteText", "about text").Once()

	for _, l := range r.Scan(0, strings.Join([]string{"GitHub", "About"}, " "), nil) {
		l.Activate(a)
	}
	a.AssertExpectations(t)
}
