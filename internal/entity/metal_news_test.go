package entity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMetalNews_ShortDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "empty",
			description: "",
			want:        "",
		},
		{
			name:        "short text unchanged",
			description: "Copper prices rallied on supply concerns.",
			want:        "Copper prices rallied on supply concerns.",
		},
		{
			name:        "exactly 100 characters unchanged",
			description: strings.Repeat("a", 100),
			want:        strings.Repeat("a", 100),
		},
		{
			name:        "over 100 characters truncated to 97 plus ellipsis",
			description: strings.Repeat("b", 101),
			want:        strings.Repeat("b", 97) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := MetalNews{Description: tt.description}
			got := n.ShortDescription()
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMetalNews_ShortDescription_MultiByte(t *testing.T) {
	n := MetalNews{Description: strings.Repeat("ü", 150)}

	got := n.ShortDescription()

	require.Equal(t, strings.Repeat("ü", 97)+"...", got)
	require.Len(t, []rune(got), 100)
}

func TestMetalNews_BeforeCreate_AssignsID(t *testing.T) {
	n := &MetalNews{Title: "Steel output climbs"}

	require.NoError(t, n.BeforeCreate(nil))
	require.NotEqual(t, uuid.Nil, n.ID)

	existing := uuid.New()
	m := &MetalNews{ID: existing}
	require.NoError(t, m.BeforeCreate(nil))
	require.Equal(t, existing, m.ID)
}
