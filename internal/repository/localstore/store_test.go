package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type blob struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveAndLoad(t *testing.T) {
	s, err := New(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, s.Save("settings", blob{Name: "x", Count: 3}))

	var out blob
	assert.NoError(t, s.Load("settings", &out))
	assert.Equal(t, blob{Name: "x", Count: 3}, out)
}

func TestSaveReplacesWholeValue(t *testing.T) {
	s, err := New(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, s.Save("settings", blob{Name: "first", Count: 1}))
	assert.NoError(t, s.Save("settings", blob{Name: "second"}))

	var out blob
	assert.NoError(t, s.Load("settings", &out))
	assert.Equal(t, "second", out.Name)
	assert.Equal(t, 0, out.Count, "old fields must not survive a replace")
}

func TestLoadMissingKey(t *testing.T) {
	s, err := New(t.TempDir())
	assert.NoError(t, err)

	var out blob
	assert.ErrorIs(t, s.Load("missing", &out), ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, err := New(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, s.Save("session", blob{Name: "x"}))
	assert.NoError(t, s.Delete("session"))

	var out blob
	assert.ErrorIs(t, s.Load("session", &out), ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete("session"))
}
