// Package slha reads SLHA parameter files: named BLOCKs of numeric entries
// addressed by one or more integer indices.
package slha

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoBlocks reports input that contains no BLOCK section at all.
var ErrNoBlocks = errors.New("slha: no blocks found")

// Index addresses an entry inside a block. A nil or empty Index addresses
// the block's unindexed value (e.g. BLOCK ALPHA).
type Index []int

// Key is the canonical lookup key: indices joined by commas.
func (ix Index) Key() string {
	parts := make([]string, len(ix))
	for i, n := range ix {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Suffix is the column-name suffix: indices joined by underscores.
func (ix Index) Suffix() string {
	return strings.ReplaceAll(ix.Key(), ",", "_")
}

// Block is one BLOCK section.
type Block struct {
	Name string
	// Q is the renormalisation scale given as "Q= ..." on the header, or 0.
	Q       float64
	entries map[string]float64
}

// Get returns the value stored at ix.
func (b *Block) Get(ix Index) (float64, bool) {
	v, ok := b.entries[ix.Key()]
	return v, ok
}

// Len returns the number of numeric entries.
func (b *Block) Len() int { return len(b.entries) }

// Document is a parsed SLHA file. Block names are upper-cased.
type Document struct {
	Blocks map[string]*Block
	// Skipped counts entry lines that carried no numeric value.
	Skipped int
}

// Block returns the named block, matching case-insensitively.
func (d *Document) Block(name string) (*Block, bool) {
	b, ok := d.Blocks[strings.ToUpper(name)]
	return b, ok
}

// Lookup returns the value at (block, ix).
func (d *Document) Lookup(block string, ix Index) (float64, bool) {
	b, ok := d.Block(block)
	if !ok {
		return 0, false
	}
	return b.Get(ix)
}

// Parse reads an SLHA document. DECAY sections are skipped. Entry lines
// whose trailing token is not numeric (SPINFO strings and the like) are
// counted in Skipped rather than failing the parse.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{Blocks: make(map[string]*Block)}
	var cur *Block

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToUpper(fields[0]) {
		case "BLOCK":
			if len(fields) < 2 {
				return nil, fmt.Errorf("slha: line %d: BLOCK without name", line)
			}
			cur = &Block{Name: strings.ToUpper(fields[1]), entries: make(map[string]float64)}
			cur.Q = headerScale(fields[2:])
			doc.Blocks[cur.Name] = cur
			continue
		case "DECAY":
			cur = nil
			continue
		}

		if cur == nil {
			continue
		}
		ix, v, ok := entry(fields)
		if !ok {
			doc.Skipped++
			continue
		}
		cur.entries[ix.Key()] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("slha: read: %w", err)
	}
	if len(doc.Blocks) == 0 {
		return nil, ErrNoBlocks
	}
	return doc, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(src []byte) (*Document, error) {
	return Parse(bytes.NewReader(src))
}

// entry splits an entry line into leading integer indices and a trailing
// numeric value.
func entry(fields []string) (Index, float64, bool) {
	v, err := parseFloat(fields[len(fields)-1])
	if err != nil {
		return nil, 0, false
	}
	ix := make(Index, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, 0, false
		}
		ix = append(ix, n)
	}
	return ix, v, true
}

// parseFloat accepts Fortran-style D exponents.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(s), 64)
}

// headerScale reads "Q= 1.0E+03" (with or without spaces) from the tokens
// following a block name.
func headerScale(fields []string) float64 {
	joined := strings.Join(fields, "")
	i := strings.Index(strings.ToUpper(joined), "Q=")
	if i < 0 {
		return 0
	}
	v, err := parseFloat(joined[i+2:])
	if err != nil {
		return 0
	}
	return v
}
