/*package format handles the miniature sequence language used to pick
detectors out of a dataset, e.g:

   0..10
   0..10 + 15
   0..100 - 63 - 10..20

A sequence format is a series of tokens separated by "+" or "-". Each token
is either a number or two numbers separated by "..", which stands for every
number between the two, inclusive. "+" adds the token's numbers to the
sequence and "-" removes them. The leading "+" may be dropped. Spaces around
operators are ignored.

Adding a number twice or removing a number that isn't there is an error:
both almost always mean the format was written incorrectly.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1 << 20
)

// term is a single "+tok" or "-tok" element of a format string.
type term struct {
	add        bool
	start, end int
}

// ExpandSequenceFormat expands a sequence format string into a sorted
// sequence of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	terms, err := parseSequenceFormat(format)
	if err != nil {
		return nil, err
	}

	// All additions happen before any removals, so "-3 + 3..5" is the same
	// as "3..5 - 3".
	set := map[int]bool{}
	for _, add := range []bool{true, false} {
		for _, tm := range terms {
			if tm.add != add {
				continue
			}
			if tm.end-tm.start+1 > BigNumber {
				return nil, fmt.Errorf("the range %d..%d has %d elements, "+
					"which is almost certainly a bug", tm.start, tm.end,
					tm.end-tm.start+1)
			}

			for n := tm.start; n <= tm.end; n++ {
				switch {
				case add && set[n]:
					return nil, fmt.Errorf("the number %d is added more "+
						"than once", n)
				case !add && !set[n]:
					return nil, fmt.Errorf("the number %d is removed more "+
						"times than it was added", n)
				case add:
					set[n] = true
				default:
					delete(set, n)
				}
			}

			if len(set) > BigNumber {
				return nil, fmt.Errorf("this sequence would have more than "+
					"%d elements, which is almost certainly a bug", BigNumber)
			}
		}
	}

	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// parseSequenceFormat splits a format string into its signed terms.
func parseSequenceFormat(format string) ([]term, error) {
	tok := tokenizeSequenceFormat(format)
	if len(tok) == 0 {
		return nil, fmt.Errorf("the format string is empty")
	}

	// The leading "+" is optional.
	if tok[0] != "+" && tok[0] != "-" {
		tok = append([]string{"+"}, tok...)
	}

	terms := []term{}
	for i := 0; i < len(tok); i += 2 {
		if tok[i] != "+" && tok[i] != "-" {
			return nil, fmt.Errorf("element '%s' should be a '+' or '-', "+
				"but isn't", tok[i])
		}
		if i+1 >= len(tok) {
			return nil, fmt.Errorf("the format string ends in a trailing "+
				"'%s'", tok[i])
		}

		start, end, err := parseSequenceFormatToken(tok[i+1])
		if err != nil {
			return nil, fmt.Errorf("element '%s' cannot be parsed because "+
				"%s", tok[i+1], err.Error())
		}
		terms = append(terms, term{tok[i] == "+", start, end})
	}

	return terms, nil
}

// tokenizeSequenceFormat separates operators from operands and drops all
// whitespace.
func tokenizeSequenceFormat(format string) []string {
	tok := []string{}
	cur := strings.Builder{}
	flush := func() {
		if cur.Len() > 0 {
			tok = append(tok, cur.String())
			cur.Reset()
		}
	}

	for _, c := range format {
		switch c {
		case '+', '-':
			flush()
			tok = append(tok, string(c))
		case ' ', '\t', '\n':
			flush()
		default:
			cur.WriteRune(c)
		}
	}
	flush()

	return tok
}

// parseSequenceFormatToken parses "n" or "start..end". The error message
// is phrased to follow the word "because".
func parseSequenceFormatToken(tok string) (start, end int, err error) {
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		n, err := strconv.Atoi(bounds[0])
		if err != nil {
			return 0, 0, fmt.Errorf("'%s' is not an integer", bounds[0])
		}
		return n, n, nil
	case 2:
		start, err1 := strconv.Atoi(bounds[0])
		if err1 != nil {
			return 0, 0, fmt.Errorf("'%s' is not an integer", bounds[0])
		}
		end, err2 := strconv.Atoi(bounds[1])
		if err2 != nil {
			return 0, 0, fmt.Errorf("'%s' is not an integer", bounds[1])
		}
		if end < start {
			return 0, 0, fmt.Errorf("lower bound %d is larger than upper "+
				"bound %d", start, end)
		}
		return start, end, nil
	}

	return 0, 0, fmt.Errorf("it has more than one '..'")
}
