package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`(\d+)`)

// sortPart is one run of a column name: either a number or a text fragment.
type sortPart struct {
	isNum bool
	num   int
	text  string
}

// naturalKey splits a column name into alternating text and number runs, so
// "P10_2" compares after "P2" instead of before it.
func naturalKey(name string) []sortPart {
	pieces := digitRun.Split(strings.TrimSpace(name), -1)
	numbers := digitRun.FindAllString(strings.TrimSpace(name), -1)

	parts := make([]sortPart, 0, len(pieces)+len(numbers))
	for i, piece := range pieces {
		if piece != "" {
			parts = append(parts, sortPart{text: piece})
		}
		if i < len(numbers) {
			n, _ := strconv.Atoi(numbers[i])
			parts = append(parts, sortPart{isNum: true, num: n})
		}
	}
	return parts
}

// naturalLess compares two column names by their natural keys. Numbers sort
// before text when a number run lines up against a text run.
func naturalLess(a, b string) bool {
	ka, kb := naturalKey(a), naturalKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		pa, pb := ka[i], kb[i]
		switch {
		case pa.isNum && pb.isNum:
			if pa.num != pb.num {
				return pa.num < pb.num
			}
		case !pa.isNum && !pb.isNum:
			if pa.text != pb.text {
				return pa.text < pb.text
			}
		default:
			return pa.isNum
		}
	}
	return len(ka) < len(kb)
}
