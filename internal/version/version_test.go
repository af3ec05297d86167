package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionStrings checks that the full rendering embeds the release tag.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
}
