package source

import (
	"regexp"
	"strings"
)

// directiveTokenRe scans a normalized line for directive-shaped tokens:
// either a ">>"-introduced word (possibly hyphenated) or a plain
// identifier-shaped word. It is the same word-boundary pattern spec.md
// §4.3 specifies, grounded on the pack's use of regexp for COBOL clause
// scanning (other_examples/dfraiese-COBOL2GO__cobol2GO.go).
var directiveTokenRe = regexp.MustCompile(`(?i)(>>[A-Z]*(-[A-Z0-9]*)*)|[a-zA-Z]+([-|_]*[a-zA-Z0-9]+)*`)

// ProcessDirectives scans a normalized line for a compiler directive and,
// if one is recognized, mutates opts immediately so it takes effect from
// the next line onward. Unrecognized ">>..." directives are left alone —
// they neither mutate opts nor fail compilation.
func ProcessDirectives(line []byte, opts *Options) {
	matches := directiveTokenRe.FindAllString(string(line), -1)
	if len(matches) == 0 || !strings.HasPrefix(matches[0], ">>") {
		return
	}
	applySourceDirective(matches, opts)
}

// applySourceDirective implements >>SOURCE [FORMAT] [IS] (FREE|FIXED).
func applySourceDirective(tokens []string, opts *Options) {
	if !strings.EqualFold(tokens[0], ">>SOURCE") {
		return
	}
	rest := tokens[1:]
	i := 0
	if i < len(rest) && strings.EqualFold(rest[i], "FORMAT") {
		i++
	}
	if i < len(rest) && strings.EqualFold(rest[i], "IS") {
		i++
	}
	if i >= len(rest) {
		return
	}
	switch strings.ToUpper(rest[i]) {
	case "FREE":
		opts.Format = FormatFree
	case "FIXED":
		opts.Format = FormatFixed
	}
}
