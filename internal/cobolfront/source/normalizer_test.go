package source

import (
	"bytes"
	"testing"
)

func TestLineReaderSplitsOnNewlines(t *testing.T) {
	lr := NewLineReader([]byte("ONE\nTWO\nTHREE"))

	var lines []string
	for {
		line, _, ok := lr.Next()
		if !ok {
			break
		}
		lines = append(lines, string(line))
	}

	if len(lines) != 3 || lines[0] != "ONE" || lines[1] != "TWO" || lines[2] != "THREE" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestLineReaderEmptyInputYieldsNoLines(t *testing.T) {
	lr := NewLineReader([]byte(""))
	if _, _, ok := lr.Next(); ok {
		t.Errorf("expected no lines from empty input")
	}
}

func TestNormalizeFixedBlanksSequenceAreaAndFullLineComment(t *testing.T) {
	opts := NewOptions("x.cob")
	opts.Format = FormatFixed
	n := NewNormalizer(opts)

	line := []byte("123456*   this is a comment" + bytesOfSpaces(60))
	out := n.Normalize(line)
	if !isAllSpace(out) {
		t.Errorf("full-line comment should normalize to all spaces, got %q", out)
	}
}

func TestNormalizeFixedBlanksPastRightMargin(t *testing.T) {
	opts := NewOptions("x.cob")
	opts.Format = FormatFixed
	opts.ColumnLength = 20
	n := NewNormalizer(opts)

	line := []byte("      MOVE A TO B-THIS-RUNS-WELL-PAST-TWENTY-COLUMNS.")
	out := n.Normalize(line)
	if len(bytes.TrimRight(out, " ")) > 20 {
		t.Errorf("expected everything past column 20 blanked, got %q", out)
	}
}

func TestFormatAutoDetectsFreeFromLeadingMarker(t *testing.T) {
	opts := NewOptions("x.cob")
	n := NewNormalizer(opts)

	n.Normalize([]byte(">>SOURCE FORMAT IS FREE"))
	if opts.Format != FormatFree {
		t.Errorf("expected auto-detection to resolve to Free, got %v", opts.Format)
	}
}

func TestFormatAutoSkipsBlankLinesWhenDeciding(t *testing.T) {
	opts := NewOptions("x.cob")
	n := NewNormalizer(opts)

	n.Normalize([]byte("   "))
	if opts.Format != FormatAuto {
		t.Errorf("a blank line must not resolve auto-detection, got %v", opts.Format)
	}
}

func bytesOfSpaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func isAllSpace(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}
