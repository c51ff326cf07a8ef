package symbols

import (
	"math"
	"strconv"
	"strings"
)

// pictureDigitRe-free digit counting: PictureDigits walks a PICTURE
// payload counting the positions contributed by '9' characters, expanding
// the "(n)" repetition suffix a character may carry (e.g. "9(5)" is 5
// digit positions, "S9(3)V99" is 5). Characters other than '9' (and the
// repetition count attached to one) do not contribute; ok is false if the
// payload contains no digit-position character at all, e.g. an all-X
// alphanumeric picture.
func PictureDigits(pic string) (digits int, ok bool) {
	runes := []rune(strings.ToUpper(pic))
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '(' {
			// Repetition count of a non-'9' character, e.g. the "(9)" of "X(9)".
			for i < len(runes) && runes[i] != ')' {
				i++
			}
			continue
		}
		if c != '9' {
			continue
		}
		ok = true
		count := 1
		if i+1 < len(runes) && runes[i+1] == '(' {
			j := i + 2
			start := j
			for j < len(runes) && runes[j] != ')' {
				j++
			}
			if j > start {
				if n, err := strconv.Atoi(string(runes[start:j])); err == nil && n > 0 {
					count = n
				}
			}
			i = j
		}
		digits += count
	}
	return digits, ok
}

// DigitWidth returns how many decimal digits val's absolute value needs,
// adapted from the teacher's PIC-width helper: zero needs one digit, and
// sign is irrelevant since PICTURE 9 positions are unsigned digit slots.
func DigitWidth(val int) int {
	if val < 0 {
		val = -val
	}
	if val == 0 {
		return 1
	}
	return int(math.Log10(float64(val))) + 1
}

// ValueFitsPicture reports whether the decimal integer literal value can
// be represented in a PICTURE with the given number of digit positions.
// A non-numeric or unparseable value is reported as fitting — this check
// only flags a VALUE clause that is provably too wide, never a
// false-positive on a literal it cannot parse.
func ValueFitsPicture(pictureDigits int, value string) bool {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(value, "+"), "-")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return true
	}
	return DigitWidth(n) <= pictureDigits
}
