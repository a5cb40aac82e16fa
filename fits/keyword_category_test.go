package fits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		keyword  string
		category KeywordCategory
	}{
		{"SIMPLE", Mandatory},
		{"NAXIS", Mandatory},
		{"NAXIS2", Mandatory},
		{"EXTNAME", Reserved},
		{"TTYPE12", Reserved},
		{"TTYPE", User},
		{"TTYPEX", User},
		{"COMMENT", Comment},
		{"HISTORY", Comment},
		{"EXPTIME", User},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.category, CategoryOf(tt.keyword), tt.keyword)
	}
}

func TestKeywordCategoryFilter(t *testing.T) {
	keywords := []string{"SIMPLE", "BITPIX", "EXTNAME", "HISTORY", "OBSERVER", "GAIN"}

	assert.Equal(t, []string{"EXTNAME", "OBSERVER", "GAIN"}, (Reserved | User).Filter(keywords))
	assert.Equal(t, keywords, AllCategories.Filter(keywords))
	assert.Empty(t, NoCategories.Filter(keywords))
}

func TestKeywordCategoryString(t *testing.T) {
	assert.Equal(t, "none", NoCategories.String())
	assert.Equal(t, "mandatory|user", (Mandatory | User).String())
}
