package db

import (
	"strings"
	"testing"

	"tutor/models"
)

func TestBuildContentQuery(t *testing.T) {
	tests := []struct {
		name        string
		filters     models.SearchFilters
		wantWhere   string
		wantArgsLen int
	}{
		{
			name:        "no filters",
			filters:     models.SearchFilters{},
			wantWhere:   "",
			wantArgsLen: 0,
		},
		{
			name:        "subject only",
			filters:     models.SearchFilters{Subject: "english"},
			wantWhere:   "WHERE subject = $1",
			wantArgsLen: 1,
		},
		{
			name:        "all filters",
			filters:     models.SearchFilters{Subject: "english", Level: models.LevelBeginner, ContentType: "lesson"},
			wantWhere:   "WHERE subject = $1 AND difficulty_level = $2 AND content_type = $3",
			wantArgsLen: 3,
		},
		{
			name:        "level and type",
			filters:     models.SearchFilters{Level: models.LevelAdvanced, ContentType: "pdf_page"},
			wantWhere:   "WHERE difficulty_level = $1 AND content_type = $2",
			wantArgsLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildContentQuery(tt.filters)

			if len(args) != tt.wantArgsLen {
				t.Errorf("buildContentQuery() args = %v, expected %d args", args, tt.wantArgsLen)
			}
			if tt.wantWhere == "" && strings.Contains(query, "WHERE") {
				t.Errorf("buildContentQuery() = %q, expected no WHERE clause", query)
			}
			if tt.wantWhere != "" && !strings.Contains(query, tt.wantWhere) {
				t.Errorf("buildContentQuery() = %q, expected to contain %q", query, tt.wantWhere)
			}
			if !strings.HasSuffix(query, "ORDER BY id") {
				t.Errorf("buildContentQuery() = %q, expected insertion ordering", query)
			}
		})
	}
}
