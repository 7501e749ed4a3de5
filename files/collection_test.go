package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(c *Collection) []string {
	var out []string
	for _, f := range c.Snapshot() {
		out = append(out, f.Name)
	}
	return out
}

func collectionOf(t *testing.T, fileNames ...string) *Collection {
	t.Helper()
	c := NewCollection()
	for _, name := range fileNames {
		require.NoError(t, c.Add(NewSourceFile(name, []byte("%PDF-"+name))))
	}
	return c
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	c := collectionOf(t, "A", "B", "C")
	assert.Equal(t, []string{"A", "B", "C"}, names(c))
	assert.Equal(t, 3, c.Len())
}

func TestAddRejectsSameNameAndSize(t *testing.T) {
	c := collectionOf(t, "A")

	err := c.Add(NewSourceFile("A", []byte("%PDF-A")))
	assert.ErrorIs(t, err, ErrDuplicateFile)
	assert.Equal(t, 1, c.Len())

	// Same name with a different size is a different file
	require.NoError(t, c.Add(NewSourceFile("A", []byte("%PDF-AA"))))
	// Same size with a different name too
	require.NoError(t, c.Add(NewSourceFile("B", []byte("%PDF-A"))))
	assert.Equal(t, 3, c.Len())
}

func TestRemoveShiftsLaterEntries(t *testing.T) {
	c := collectionOf(t, "A", "B", "C")

	removed, err := c.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Name)
	assert.Equal(t, []string{"A", "C"}, names(c))

	_, err = c.Remove(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = c.Remove(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"first to last", 0, 2, []string{"B", "C", "A"}},
		{"last to first", 2, 0, []string{"C", "A", "B"}},
		{"forward by one", 0, 1, []string{"B", "A", "C"}},
		{"backward by one", 2, 1, []string{"A", "C", "B"}},
		{"same position", 1, 1, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := collectionOf(t, "A", "B", "C")
			require.NoError(t, c.Move(tt.from, tt.to))
			assert.Equal(t, tt.want, names(c))
		})
	}
}

func TestMoveOutOfRange(t *testing.T) {
	c := collectionOf(t, "A", "B")
	assert.ErrorIs(t, c.Move(0, 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Move(5, 0), ErrIndexOutOfRange)
	assert.Equal(t, []string{"A", "B"}, names(c))
}

func TestClearAndLookups(t *testing.T) {
	c := collectionOf(t, "A", "B")

	b, err := c.At(1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.IndexOf(b.ID))
	assert.True(t, c.Contains(Identity{Name: "A", Size: int64(len("%PDF-A"))}))

	require.NoError(t, c.Move(1, 0))
	assert.Equal(t, 0, c.IndexOf(b.ID))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, -1, c.IndexOf(b.ID))
	_, err = c.At(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSnapshotIsIndependent(t *testing.T) {
	c := collectionOf(t, "A", "B")
	snapshot := c.Snapshot()

	require.NoError(t, c.Move(0, 1))
	c.Clear()

	require.Len(t, snapshot, 2)
	assert.Equal(t, "A", snapshot[0].Name)
}

func TestSourceFileIDsAreUnique(t *testing.T) {
	a := NewSourceFile("A", []byte("x"))
	b := NewSourceFile("A", []byte("x"))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Identity(), b.Identity())
	assert.Equal(t, int64(1), a.Size)
}
