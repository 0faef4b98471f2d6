package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	grid := Layout(10, 12)
	require.Len(t, grid, 120)
	assert.Equal(t, "A1", grid[0])
	assert.Equal(t, "A12", grid[11])
	assert.Equal(t, "B1", grid[12])
	assert.Equal(t, "J12", grid[119])
}

func TestLayoutInvalidDimensions(t *testing.T) {
	assert.Empty(t, Layout(0, 12))
	assert.Empty(t, Layout(10, 0))
	assert.Empty(t, Layout(27, 12))
	assert.Empty(t, Layout(-1, -1))
}

func TestMissing(t *testing.T) {
	available := []string{"A1", "A2", "B1"}
	assert.Nil(t, Missing(available, []string{"A1", "B1"}))
	assert.Equal(t, []string{"C1", "A9"}, Missing(available, []string{"C1", "A2", "A9"}))
}

func TestIntersect(t *testing.T) {
	taken := []string{"A1", "B2"}
	assert.Nil(t, Intersect([]string{"C1", "C2"}, taken))
	assert.Equal(t, []string{"B2"}, Intersect([]string{"C1", "B2"}, taken))
}

func TestRemove(t *testing.T) {
	next := Remove([]string{"A1", "A2", "A3"}, []string{"A2"})
	assert.Equal(t, []string{"A1", "A3"}, next)

	// Seats absent from the ledger are ignored.
	assert.Equal(t, []string{"A1"}, Remove([]string{"A1"}, []string{"Z9"}))
}

func TestRestore(t *testing.T) {
	layout := Layout(2, 2) // A1 A2 B1 B2
	next := Restore([]string{"A1"}, []string{"B2"}, layout)
	assert.ElementsMatch(t, []string{"A1", "B2"}, next)
}

func TestRestoreClampsToLayout(t *testing.T) {
	layout := Layout(2, 2)

	// A seat outside the grid never enters the ledger.
	next := Restore([]string{"A1"}, []string{"Z9"}, layout)
	assert.Equal(t, []string{"A1"}, next)

	// A double release cannot grow the ledger past the grid.
	next = Restore([]string{"A1", "B2"}, []string{"B2", "B2"}, layout)
	assert.Len(t, next, 2)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"A1", "A2"}, Dedupe([]string{"A1", "A2", "A1", "A2"}))
	assert.Empty(t, Dedupe(nil))
}

func TestSplitSeatID(t *testing.T) {
	row, n, err := splitSeatID("C12")
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "A", "a1", "A0", "Ax", "1A"} {
		_, _, err := splitSeatID(bad)
		assert.Error(t, err, "seat %q", bad)
	}
}
