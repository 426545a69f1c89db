package utils

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseQuantity_AcceptsDecimalStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"0", "0"},
		{"2.5", "2.5"},
		{"-7.5", "-7.5"},
		{"  3  ", "3"},
		{"0.000001", "0.000001"},
		{"100.0000004", "100.0000004"},
	}
	for _, tc := range cases {
		d, err := ParseQuantity(tc.in)
		if err != nil {
			t.Fatalf("ParseQuantity(%q) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("ParseQuantity(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseQuantity_RejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "1.2.3", "1,000"} {
		if _, err := ParseQuantity(in); !errors.Is(err, ErrorInvalidQuantity) {
			t.Fatalf("ParseQuantity(%q) expected ErrorInvalidQuantity, got %v", in, err)
		}
	}
}

func TestParsePositiveQuantity_RequiresGreaterThanZero(t *testing.T) {
	if _, err := ParsePositiveQuantity("0"); !errors.Is(err, ErrorInvalidQuantity) {
		t.Fatalf("expected ErrorInvalidQuantity for zero, got %v", err)
	}
	if _, err := ParsePositiveQuantity("-1"); !errors.Is(err, ErrorInvalidQuantity) {
		t.Fatalf("expected ErrorInvalidQuantity for negative, got %v", err)
	}
	d, err := ParsePositiveQuantity("0.000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "0.000001" {
		t.Fatalf("expected 0.000001, got %s", d.String())
	}
}

func TestRoundQuantity_HalfUpAtScaleSix(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"7.5", "7.500000"},
		{"2.0000005", "2.000001"},
		{"2.0000004", "2.000000"},
		{"-2.0000005", "-2.000001"},
		{"0.9999999", "1.000000"},
	}
	for _, tc := range cases {
		d, err := ParseQuantity(tc.in)
		if err != nil {
			t.Fatalf("ParseQuantity(%q) error: %v", tc.in, err)
		}
		got := FormatQuantity(RoundQuantity(d))
		if got != tc.expected {
			t.Fatalf("RoundQuantity(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestRoundQuantity_ExactMultiplication(t *testing.T) {
	// 2.5 * 3 must be exactly -7.500000 when issued; no float drift allowed.
	lineQty, _ := ParseQuantity("2.5")
	outputQty, _ := ParseQuantity("3")
	issue := RoundQuantity(lineQty.Mul(outputQty)).Neg()
	if FormatQuantity(issue) != "-7.500000" {
		t.Fatalf("expected -7.500000, got %s", FormatQuantity(issue))
	}
}

func TestIsZeroAtScale(t *testing.T) {
	if !IsZeroAtScale(decimal.RequireFromString("0.0000004")) {
		t.Fatalf("0.0000004 rounds to zero at scale 6")
	}
	if IsZeroAtScale(decimal.RequireFromString("0.0000005")) {
		t.Fatalf("0.0000005 does not round to zero at scale 6")
	}
}
