package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldContinue(t *testing.T) {
	require.True(t, ShouldContinue(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, ShouldContinue(ctx))
}

func TestContainsString(t *testing.T) {
	list := []string{"Tense", "Zorba"}
	require.True(t, ContainsString(list, "Tense"))
	require.False(t, ContainsString(list, "Aroma"))
	require.False(t, ContainsString(nil, "Tense"))
}

func TestCleanToValidUTF8(t *testing.T) {
	require.Equal(t, "copper", CleanToValidUTF8("copper"))
	require.Equal(t, "copper", CleanToValidUTF8("cop\x00per"))
	require.Equal(t, "ab", CleanToValidUTF8("a\xffb"))
}
