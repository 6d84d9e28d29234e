package msgcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkers-local/types"
)

func TestEmbeddedLocales(t *testing.T) {
	tests := []struct {
		locale string
		white  string
		winner string
	}{
		{"en", "White", "Black win!"},
		{"ru", "Белые", "Чёрные победили!"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			c, err := New(tt.locale, "")
			require.NoError(t, err)
			assert.Equal(t, tt.locale, c.Locale())
			assert.Equal(t, tt.white, c.ColorName(types.White))
			assert.Equal(t, tt.winner, c.Winner(types.Black))
		})
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	en, err := New("en", "")
	require.NoError(t, err)
	ru, err := New("ru", "")
	require.NoError(t, err)

	enKeys := make([]string, 0)
	for k := range en.Strings() {
		enKeys = append(enKeys, k)
	}
	ruKeys := make([]string, 0)
	for k := range ru.Strings() {
		ruKeys = append(ruKeys, k)
	}
	assert.ElementsMatch(t, enKeys, ruKeys)
}

func TestUnknownLocale(t *testing.T) {
	_, err := New("xx", "")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	c, err := New("en", "")
	require.NoError(t, err)

	s, err := c.Render("status.selected", map[string]any{"Player": "White", "Moves": 2})
	require.NoError(t, err)
	assert.Equal(t, "White to move · 2 destination(s)", s)

	_, err = c.Render("status.selected", map[string]any{"Player": "White"})
	assert.Error(t, err, "missing template field")

	_, err = c.Render("no.such.key", nil)
	assert.Error(t, err)
	assert.Equal(t, "no.such.key", c.Text("no.such.key", nil))
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("winner:\n  banner: \"{{.Winner}} takes it\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := New("en", dir)
	require.NoError(t, err)
	assert.Equal(t, "White takes it", c.Winner(types.White))
	assert.Equal(t, "Black", c.ColorName(types.Black))
}

func TestOverrideDirDuplicateKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("color:\n  white: W\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("color:\n  white: Wh\n"), 0o644))

	_, err := New("en", dir)
	assert.ErrorContains(t, err, "duplicate override key")
}

func TestNonStringLeafRejected(t *testing.T) {
	_, err := parseYAMLToFlat([]byte("color:\n  white: 3\n"))
	assert.Error(t, err)
}
