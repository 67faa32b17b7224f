package core

import "testing"

func TestParseDecimalToPaise(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"125000", 12500000, true},
		{"0", 0, false},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToPaise(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got (%d, %v), want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Paise: 123456}).String(); s != "₹1234.56" {
		t.Fatalf("got %s", s)
	}
	if s := (Money{Paise: -50}).String(); s != "-₹0.50" {
		t.Fatalf("got %s", s)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Rupees(100)
	b := Rupees(30)
	if got := a.Sub(b).Paise; got != 7000 {
		t.Fatalf("sub: %d", got)
	}
	if got := a.Add(b).Paise; got != 13000 {
		t.Fatalf("add: %d", got)
	}
}
