package namegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"peerpass/internal/namegen"
)

func TestGenerate_Shape(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := namegen.Generate()
		parts := strings.Split(name, "-")
		require.Len(t, parts, 2, "name %q", name)
		require.NotEmpty(t, parts[0])
		require.NotEmpty(t, parts[1])
		require.Equal(t, strings.ToLower(name), name)
	}
}
