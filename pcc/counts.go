// Package pcc counts printable characters.
package pcc

import (
	"bufio"
	"fmt"
	"io"
)

// Printable characters range from space to tilde.
const (
	First byte = 32
	Last  byte = 126
)

const size = int(Last-First) + 1

// IsPrintable reports whether b is in the printable range.
func IsPrintable(b byte) bool {
	return b >= First && b <= Last
}

// Counts holds the occurrences of each printable character within a single connection.
// A payload never exceeds math.MaxUint32 bytes, so uint32 can't overflow.
type Counts struct {
	chars [size]uint32
	total uint32
}

// Add counts the printable characters of a chunk and returns how many were found.
func (c *Counts) Add(chunk []byte) uint32 {
	var n uint32
	for _, b := range chunk {
		if IsPrintable(b) {
			c.chars[b-First]++
			n++
		}
	}
	c.total += n
	return n
}

func (c *Counts) Total() uint32 {
	return c.total
}

func (c *Counts) Count(ch byte) uint32 {
	if !IsPrintable(ch) {
		return 0
	}
	return c.chars[ch-First]
}

func (c *Counts) Reset() {
	*c = Counts{}
}

// Table accumulates counts across connections.
// It is not safe for concurrent use: it must only be touched by the goroutine serving connections.
type Table struct {
	chars [size]uint64
}

// Fold adds the counts of a connection to the table.
func (t *Table) Fold(c *Counts) {
	for i, n := range c.chars {
		t.chars[i] += uint64(n)
	}
}

func (t *Table) Count(ch byte) uint64 {
	if !IsPrintable(ch) {
		return 0
	}
	return t.chars[ch-First]
}

// Total returns the number of printable characters folded so far.
func (t *Table) Total() uint64 {
	var total uint64
	for _, n := range t.chars {
		total += n
	}
	return total
}

// Map returns the table keyed by character, omitting characters never seen.
func (t *Table) Map() map[string]uint64 {
	m := make(map[string]uint64)
	for i, n := range t.chars {
		if n > 0 {
			m[string(rune(First)+rune(i))] = n
		}
	}
	return m
}

// WriteReport writes one line per printable character, in ascending order.
func (t *Table) WriteReport(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, n := range t.chars {
		fmt.Fprintf(bw, "char '%c' : %d times\n", First+byte(i), n)
	}
	return bw.Flush()
}
