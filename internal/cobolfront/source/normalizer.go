package source

import "bytes"

// Normalizer turns one logical line of bytes into a character buffer of
// identical length, suitable for lexing, applying the fixed- or
// free-format layout rules of spec.md §4.2. A Normalizer is scoped to one
// compilation unit, but the format it detects is written back into the
// shared opts.Format, so it stays in effect for every later file lexed
// with the same Options.
type Normalizer struct {
	opts    *Options
	decided bool
}

// NewNormalizer returns a Normalizer driven by opts. opts.Format may be
// FormatAuto, in which case the normalizer runs detection once per
// compilation unit until the first non-blank line resolves it.
func NewNormalizer(opts *Options) *Normalizer {
	return &Normalizer{opts: opts, decided: opts.Format != FormatAuto}
}

// Normalize applies the layout rules for the currently-resolved format
// and returns a buffer the same length as line.
func (n *Normalizer) Normalize(line []byte) []byte {
	n.maybeDetect(line)

	if n.opts.Format == FormatFree {
		return normalizeFree(line)
	}
	// FormatAuto behaves as Fixed until detection resolves it.
	return n.normalizeFixed(line)
}

func (n *Normalizer) maybeDetect(line []byte) {
	if n.decided || n.opts.Format != FormatAuto {
		return
	}
	if isBlank(line) {
		return // blank lines do not decide (spec.md §4.2, Open Questions)
	}
	if format, ok := detectFormat(line); ok {
		n.opts.Format = format
		n.decided = true
	}
}

func isBlank(line []byte) bool {
	for _, b := range line {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

// detectFormat runs the first-non-blank-line heuristic of spec.md §4.2.
func detectFormat(line []byte) (Format, bool) {
	trimmed := bytes.TrimLeft(firstN(line, 7), " \t")
	if bytes.HasPrefix(trimmed, []byte("*>")) || bytes.HasPrefix(trimmed, []byte(">>")) {
		return FormatFree, true
	}

	hasVisible := false
	for _, b := range firstN(line, 6) {
		if b != ' ' {
			hasVisible = true
			break
		}
	}
	col7 := byteAt(line, 6)
	col7ok := col7 == '*' || col7 == '-' || col7 == '/' || col7 == ' ' || col7 == 0
	col89 := string(slice(line, 7, 9))

	if hasVisible || col7ok || col89 == ">>" {
		return FormatFixed, true
	}
	return FormatAuto, false
}

func firstN(line []byte, n int) []byte {
	if n > len(line) {
		n = len(line)
	}
	return line[:n]
}

func byteAt(line []byte, i int) byte {
	if i < 0 || i >= len(line) {
		return 0
	}
	return line[i]
}

func slice(line []byte, lo, hi int) []byte {
	if lo > len(line) {
		lo = len(line)
	}
	if hi > len(line) {
		hi = len(line)
	}
	if hi < lo {
		hi = lo
	}
	return line[lo:hi]
}

// normalizeFixed blanks the sequence area, full-line comments, the area
// past the right margin, any floating "*>" inline comment, and column 1.
func (n *Normalizer) normalizeFixed(line []byte) []byte {
	buf := make([]byte, len(line))
	copy(buf, line)

	blankRange(buf, 0, 6) // sequence area, columns 1-6

	if len(buf) >= 7 && buf[6] == '*' {
		blankRange(buf, 0, len(buf))
		return buf
	}

	colLen := n.opts.ColumnLength
	if colLen <= 0 {
		colLen = DefaultColumnLength
	}
	blankRange(buf, colLen, len(buf))

	if idx := bytes.Index(buf, []byte("*>")); idx >= 0 {
		blankRange(buf, idx, len(buf))
	}

	if len(buf) > 0 {
		buf[0] = ' '
	}
	return buf
}

// normalizeFree truncates at the first floating "*>" inline comment; it is
// otherwise the identity transform.
func normalizeFree(line []byte) []byte {
	buf := make([]byte, len(line))
	copy(buf, line)
	if idx := bytes.Index(buf, []byte("*>")); idx >= 0 {
		blankRange(buf, idx, len(buf))
	}
	return buf
}

func blankRange(buf []byte, lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi > len(buf) {
		hi = len(buf)
	}
	for i := lo; i < hi; i++ {
		buf[i] = ' '
	}
}
