package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRanges(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		totalPages int
		want       PageSet
	}{
		{"single page", "3", 5, PageSet{3}},
		{"list and range", "1-3,5", 10, PageSet{1, 2, 3, 5}},
		{"duplicates collapse", "1,1,2-2", 5, PageSet{1, 2}},
		{"overlapping ranges", "2-4,3-6", 10, PageSet{2, 3, 4, 5, 6}},
		{"token order does not matter", "5,1-2", 5, PageSet{1, 2, 5}},
		{"whitespace is ignored", " 1 - 3 ,  5 ", 5, PageSet{1, 2, 3, 5}},
		{"empty tokens are skipped", "1,,3,", 5, PageSet{1, 3}},
		{"full range", "1-4", 4, PageSet{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRanges(tt.spec, tt.totalPages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageRangesMalformed(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		totalPages int
		token      string
	}{
		{"start after end", "5-3", 10, "5-3"},
		{"page zero", "0", 10, "0"},
		{"beyond last page", "11", 10, "11"},
		{"range beyond last page", "8-12", 10, "8-12"},
		{"not a number", "abc", 10, "abc"},
		{"open range", "3-", 10, "3-"},
		{"negative number", "-2", 10, "-2"},
		{"too many bounds", "1-2-3", 10, "1-2-3"},
		{"fraction", "1.5", 10, "1.5"},
		{"first bad token wins", "1,x,99", 10, "x"},
		{"token is reported trimmed", "1,  7-2 ", 10, "7-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePageRanges(tt.spec, tt.totalPages)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRangeToken))

			var pdfErr *Error
			require.True(t, errors.As(err, &pdfErr))
			assert.Equal(t, tt.token, pdfErr.Token)
			assert.Contains(t, err.Error(), tt.token)
		})
	}
}

func TestParsePageRangesEmpty(t *testing.T) {
	for _, spec := range []string{"", "   ", ",", " , ,"} {
		_, err := ParsePageRanges(spec, 10)
		assert.ErrorIs(t, err, ErrEmptySelection, "spec %q", spec)
		assert.NotErrorIs(t, err, ErrMalformedRangeToken)
	}
}

func TestCheckPageSpec(t *testing.T) {
	for _, spec := range []string{"", "   ", "\t\n"} {
		assert.ErrorIs(t, CheckPageSpec(spec), ErrEmptySelection, "spec %q", spec)
	}
	assert.NoError(t, CheckPageSpec(" 1-2 "))
	// Token-level emptiness is left to the parser
	assert.NoError(t, CheckPageSpec(" , "))
}

func TestParsePageRangesIsStrictlyAscending(t *testing.T) {
	specs := []string{"9,1,5-7,2,2,6", "10-10,1-10", "3,2,1", "4-6,1-3"}
	for _, spec := range specs {
		got, err := ParsePageRanges(spec, 10)
		require.NoError(t, err)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i], "spec %q", spec)
		}
	}
}

func TestValidatePageSet(t *testing.T) {
	assert.NoError(t, ValidatePageSet(PageSet{1, 4}, 4))
	assert.ErrorIs(t, ValidatePageSet(PageSet{1, 5}, 4), ErrPageCountMismatch)
	assert.ErrorIs(t, ValidatePageSet(PageSet{0}, 4), ErrPageCountMismatch)
	assert.ErrorIs(t, ValidatePageSet(nil, 4), ErrEmptySelection)
}

func TestPageSetHelpers(t *testing.T) {
	assert.Equal(t, PageSet{1, 2, 3}, AllPages(3))
	assert.Empty(t, AllPages(0))
	assert.Equal(t, []int{0, 2, 4}, PageSet{1, 3, 5}.ZeroBased())
	assert.Equal(t, PageSet{1, 3}, PageSet{3, 1, 3}.Normalize())

	assert.Equal(t, "1-3,5", PageSet{1, 2, 3, 5}.String())
	assert.Equal(t, "2,4,6-7", PageSet{2, 4, 6, 7}.String())
	assert.Equal(t, "", PageSet{}.String())
}
