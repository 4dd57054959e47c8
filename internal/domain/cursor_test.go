package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeysetDefaults(t *testing.T) {
	k, err := NewKeyset(nil, "", 0, MovieSortColumns)
	require.NoError(t, err)

	assert.Equal(t, DefaultPageSize, k.PageSize)
	assert.Equal(t, []SortField{{Column: "id"}}, k.Fields)
	assert.Nil(t, k.Cursor)
	assert.Equal(t, "m.id ASC", k.OrderBy("m"))

	clause, args, next := k.WhereAfter("m", 1)
	assert.Empty(t, clause)
	assert.Nil(t, args)
	assert.Equal(t, 1, next)
}

func TestNewKeysetAppendsTiebreaker(t *testing.T) {
	k, err := NewKeyset([]string{"like_count_DESC"}, "", 10, MovieSortColumns)
	require.NoError(t, err)

	require.Len(t, k.Fields, 2)
	assert.Equal(t, SortField{Column: "like_count", Desc: true}, k.Fields[0])
	assert.Equal(t, SortField{Column: "id"}, k.Fields[1])
	assert.Equal(t, "m.like_count DESC, m.id ASC", k.OrderBy("m"))
}

func TestNewKeysetRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{"missing direction", []string{"title"}},
		{"lowercase direction", []string{"title_asc"}},
		{"unknown column", []string{"password_ASC"}},
		{"empty column", []string{"_DESC"}},
		{"not whitelisted", []string{"movie_file_path_ASC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyset(tt.order, "", 5, MovieSortColumns)
			assert.Error(t, err)
		})
	}
}

func TestCursorRoundTrip(t *testing.T) {
	k, err := NewKeyset([]string{"title_DESC"}, "", 5, MovieSortColumns)
	require.NoError(t, err)

	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	token, err := k.NextCursor(map[string]any{
		"title": "Seven Samurai",
		"id":    42,
		// extra values are harmless, only ordered columns are read back
		"created_at": createdAt,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The follow-up request may drop its order params entirely; the
	// cursor re-establishes the same ordering.
	k2, err := NewKeyset(nil, token, 5, MovieSortColumns)
	require.NoError(t, err)

	assert.Equal(t, "m.title DESC, m.id ASC", k2.OrderBy("m"))

	clause, args, next := k2.WhereAfter("m", 3)
	assert.Equal(t, "(m.title < $3::text OR (m.title = $3::text AND (m.id > $4::int)))", clause)
	assert.Equal(t, []any{"Seven Samurai", "42"}, args)
	assert.Equal(t, 5, next)
}

func TestWhereAfterThreeColumns(t *testing.T) {
	k, err := NewKeyset([]string{"like_count_DESC", "created_at_ASC"}, "", 5, MovieSortColumns)
	require.NoError(t, err)

	token, err := k.NextCursor(map[string]any{
		"like_count": 7,
		"created_at": time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		"id":         13,
	})
	require.NoError(t, err)

	k2, err := NewKeyset(nil, token, 5, MovieSortColumns)
	require.NoError(t, err)

	clause, args, next := k2.WhereAfter("m", 1)
	want := "(m.like_count < $1::int OR (m.like_count = $1::int AND " +
		"(m.created_at > $2::timestamptz OR (m.created_at = $2::timestamptz AND (m.id > $3::int)))))"
	assert.Equal(t, want, clause)
	require.Len(t, args, 3)
	assert.Equal(t, "7", args[0])
	assert.Equal(t, "13", args[2])
	assert.Equal(t, 4, next)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"not json", "bm90IGpzb24"},
		{"empty object", "e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyset(nil, tt.token, 5, MovieSortColumns)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestNewKeysetRejectsCursorMissingOrderedValue(t *testing.T) {
	k, err := NewKeyset([]string{"title_ASC"}, "", 5, MovieSortColumns)
	require.NoError(t, err)

	// Token built without the id tiebreaker value.
	token, err := k.NextCursor(map[string]any{"title": "Ran"})
	require.NoError(t, err)

	_, err = NewKeyset(nil, token, 5, MovieSortColumns)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
