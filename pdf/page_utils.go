package pdf

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// PageSet is a strictly ascending sequence of distinct 1-based page numbers
type PageSet []int

// CheckPageSpec rejects a specification that is blank after trimming. It needs no
// document, so callers can run it before loading one.
func CheckPageSpec(spec string) error {
	if strings.TrimSpace(spec) == "" {
		return emptySelection()
	}
	return nil
}

// ParsePageRanges parses a page specification against a document of totalPages pages.
// Supports formats: "1", "1,3", "1-5", "1,3-5,7". Whitespace around tokens and around
// the hyphen is ignored and empty tokens are skipped. The first invalid token aborts
// parsing and is returned in the error.
func ParsePageRanges(spec string, totalPages int) (PageSet, error) {
	pages := make(map[int]struct{})

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			// Range like "1-5"
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, malformedToken(part)
			}

			start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			if err != nil {
				return nil, malformedToken(part)
			}

			end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err != nil {
				return nil, malformedToken(part)
			}

			if start < 1 || end > totalPages || start > end {
				return nil, malformedToken(part)
			}

			for i := start; i <= end; i++ {
				pages[i] = struct{}{}
			}
			continue
		}

		// Single page like "3"
		pageNum, err := strconv.Atoi(part)
		if err != nil || pageNum < 1 || pageNum > totalPages {
			return nil, malformedToken(part)
		}
		pages[pageNum] = struct{}{}
	}

	if len(pages) == 0 {
		return nil, emptySelection()
	}

	result := make(PageSet, 0, len(pages))
	for page := range pages {
		result = append(result, page)
	}
	sort.Ints(result)

	return result, nil
}

// ValidatePageSet checks a parsed selection against the page count of the document
// actually being split. A bound that was valid at parse time may be stale.
func ValidatePageSet(pages PageSet, totalPages int) error {
	if len(pages) == 0 {
		return emptySelection()
	}
	for _, page := range pages {
		if page < 1 || page > totalPages {
			return pageCountMismatch(page, totalPages)
		}
	}
	return nil
}

// AllPages returns the selection of every page of a totalPages document
func AllPages(totalPages int) PageSet {
	result := make(PageSet, totalPages)
	for i := range totalPages {
		result[i] = i + 1
	}
	return result
}

// Normalize returns a sorted copy of p without duplicates
func (p PageSet) Normalize() PageSet {
	result := make(PageSet, len(p))
	copy(result, p)
	sort.Ints(result)
	return slices.Compact(result)
}

// ZeroBased returns the backend offsets (page number - 1) in selection order
func (p PageSet) ZeroBased() []int {
	offsets := make([]int, len(p))
	for i, page := range p {
		offsets[i] = page - 1
	}
	return offsets
}

// String renders the selection as compact range text, e.g. "1-3,5"
func (p PageSet) String() string {
	var b strings.Builder
	for i := 0; i < len(p); {
		j := i
		for j+1 < len(p) && p[j+1] == p[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p[i]))
		if j > i {
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(p[j]))
		}
		i = j + 1
	}
	return b.String()
}
