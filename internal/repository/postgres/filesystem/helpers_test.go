package filesystem

import (
	"testing"

	models "filevault/internal/domain/models/filesystem"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"report", "%report%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.term))
		})
	}
}

func TestStateClause(t *testing.T) {
	assert.Equal(t, " AND i.is_deleted = FALSE", stateClause("i", models.Live))
	assert.Equal(t, " AND f.is_deleted = TRUE", stateClause("f", models.Trashed))
	assert.Empty(t, stateClause("f", models.AnyState))
}

func TestSortColumnsCoverEveryField(t *testing.T) {
	for _, field := range []models.SortField{
		models.SortByName,
		models.SortByCreatedAt,
		models.SortByUpdatedAt,
		models.SortBySize,
	} {
		_, ok := sortColumns[field]
		assert.True(t, ok, "missing sort column for %s", field)
	}
}

func TestNonNil(t *testing.T) {
	assert.NotNil(t, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
