package pagination

import (
	"fmt"
	"regexp"
	"strconv"
)

// HeaderContentRange is the response header the engine uses for pagination metadata.
const HeaderContentRange = "Content-Range"

// rangePattern matches "<start>-<end>/<total>" anywhere in the header value.
var rangePattern = regexp.MustCompile(`(\d+)-(\d+)/(\d+)`)

// rangeGroups is the number of submatches expected from rangePattern (whole match + 3 groups).
const rangeGroups = 4

// Range is the pagination descriptor of a single list response.
//
// Page is the index of the first item of the returned window, Size maps to the
// count (c) query parameter and Total is the number of items across all pages.
type Range struct {
	Page  int `json:"page"  yaml:"page"`
	Size  int `json:"size"  yaml:"size"`
	Total int `json:"total" yaml:"total"`
}

// ParseRange extracts a Range from a Content-Range style value such as "0-19/45".
//
// The pattern is searched for, not matched against the whole value, so prefixes like
// "items " and trailing content are accepted. Digits are read as base-10, so leading
// zeros are harmless ("007" is 7).
//
// The boolean is false when the value carries no usable descriptor: no match, or a
// number that does not fit in an int. Callers should treat that as "total unknown".
func ParseRange(value string) (Range, bool) {
	match := rangePattern.FindStringSubmatch(value)
	if len(match) < rangeGroups {
		return Range{}, false
	}

	var fields [3]int
	for i := range fields {
		n, err := strconv.ParseInt(match[i+1], 10, strconv.IntSize)
		if err != nil {
			return Range{}, false
		}
		fields[i] = int(n)
	}

	return Range{Page: fields[0], Size: fields[1], Total: fields[2]}, true
}

// String renders the range back in header form.
func (r Range) String() string {
	return fmt.Sprintf("%d-%d/%d", r.Page, r.Size, r.Total)
}
