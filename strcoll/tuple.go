package strcoll

import (
	"strings"

	"github.com/elastic/hey-pcc/conv"
)

type Tuple struct {
	First, Second string
}

// Tuples are formatted as dot-padded key/value lines.
type Tuples struct {
	data []Tuple
}

func NewTuples() Tuples {
	return Tuples{data: make([]Tuple, 0)}
}

func (ts *Tuples) Add(first string, second interface{}) {
	ts.data = append(ts.data, Tuple{first, conv.StringOf(second)})
}

func (ts Tuples) Format(padding int) string {
	lines := make([]string, 0, len(ts.data))
	for _, t := range ts.data {
		first := t.First + " "
		if n := padding - len(t.First); n > 0 {
			first += strings.Repeat(".", n) + " "
		}
		lines = append(lines, first+t.Second)
	}
	return strings.Join(lines, "\n")
}
