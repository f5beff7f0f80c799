package symtab

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternDeduplicates(t *testing.T) {
	tb := New()

	i1, err := tb.Intern("a")
	require.NoError(t, err)

	i2, err := tb.Intern("b")
	require.NoError(t, err)

	i3, err := tb.Intern("a")
	require.NoError(t, err)

	require.Equal(t, i1, i3)
	require.NotEqual(t, i1, i2)
	require.Equal(t, 2, tb.Len())
	require.Equal(t, []string{"a", "b"}, tb.Names())
}

func TestInternRehashesAcrossGrowth(t *testing.T) {
	tb := New()

	for i := 0; i < 1000; i++ {
		name := fmt.Sprintf("sym-%d", i)
		idx, err := tb.Intern(name)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}

	require.Equal(t, 1000, tb.Len())

	// Re-interning an existing name after several rehashes resolves to its
	// original index instead of adding a new entry.
	idx, err := tb.Intern("sym-500")
	require.NoError(t, err)
	require.Equal(t, 500, idx)
}
