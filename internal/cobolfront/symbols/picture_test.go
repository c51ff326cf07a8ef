package symbols

import "testing"

func TestPictureDigitsExpandsRepetitionSuffix(t *testing.T) {
	cases := []struct {
		pic    string
		digits int
		ok     bool
	}{
		{"9(5)", 5, true},
		{"S9(3)V99", 5, true},
		{"999", 3, true},
		{"X(20)", 0, false},
		{"9", 1, true},
	}
	for _, c := range cases {
		digits, ok := PictureDigits(c.pic)
		if digits != c.digits || ok != c.ok {
			t.Errorf("PictureDigits(%q) = (%d, %v), want (%d, %v)", c.pic, digits, ok, c.digits, c.ok)
		}
	}
}

func TestPictureDigitsIsCaseInsensitive(t *testing.T) {
	digits, ok := PictureDigits("9(3)v99")
	if !ok || digits != 5 {
		t.Errorf("PictureDigits lowercase = (%d, %v), want (5, true)", digits, ok)
	}
}

func TestDigitWidthHandlesZeroAndNegative(t *testing.T) {
	cases := map[int]int{0: 1, 5: 1, 9: 1, 10: 2, 99: 2, 100: 3, -42: 2}
	for val, want := range cases {
		if got := DigitWidth(val); got != want {
			t.Errorf("DigitWidth(%d) = %d, want %d", val, got, want)
		}
	}
}

func TestValueFitsPictureBoundaryCases(t *testing.T) {
	if !ValueFitsPicture(3, "999") {
		t.Errorf("999 should fit in 3 digit positions")
	}
	if ValueFitsPicture(2, "999") {
		t.Errorf("999 should not fit in 2 digit positions")
	}
	if !ValueFitsPicture(3, "-42") {
		t.Errorf("sign prefix should be stripped before width checking")
	}
	if !ValueFitsPicture(1, `"NOT-NUMERIC"`) {
		t.Errorf("an unparseable literal must be reported as fitting, not rejected")
	}
}
