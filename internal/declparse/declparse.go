// Package declparse splits a declaration list such as "Add, Sub, f(a, b)"
// into one name per top-level entry. Commas inside parentheses belong to
// the entry that contains them, and an entry with a parenthesized group ends
// at the parenthesis that closes it.
package declparse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalanced is returned when parentheses do not pair up.
var ErrUnbalanced = errors.New("declparse: unbalanced parentheses")

// Parse returns the trimmed entries of decl in order. Empty entries, such
// as the one before a leading comma, are skipped. Text between the closing
// parenthesis of an entry's first group and the next comma is dropped, so
// "f(a)x, g" yields "f(a)" and "g".
func Parse(decl string) ([]string, error) {
	var names []string
	first, depth := 0, 0
	groupEnd := -1

	emit := func(end int) {
		tokenEnd := end
		if groupEnd >= 0 {
			tokenEnd = groupEnd
		}
		if name := strings.TrimSpace(decl[first:tokenEnd]); name != "" {
			names = append(names, name)
		}
		first = end + 1
		groupEnd = -1
	}

	for i := 0; i < len(decl); i++ {
		switch decl[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return nil, fmt.Errorf("%w: stray ')' at offset %d", ErrUnbalanced, i)
			}
			depth--
			if depth == 0 && groupEnd < 0 {
				groupEnd = i + 1
			}
		case ',':
			if depth == 0 {
				emit(i)
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: missing ')' in %q", ErrUnbalanced, strings.TrimSpace(decl[first:]))
	}
	if first < len(decl) {
		emit(len(decl))
	}

	return names, nil
}
