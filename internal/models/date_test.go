package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"1990-03-14", Date{1990, time.March, 14}},
		{" 2000-02-29 ", Date{2000, time.February, 29}},
		{"1995-05-20T10:30:00Z", Date{1995, time.May, 20}},
		{"--12-25", Date{0, time.December, 25}},
		{"--02-29", Date{0, time.February, 29}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "14/03/1990", "1990-13-01", "1990-02-30", "2001-02-29", "--13-01", "yesterday"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestDateOnDay(t *testing.T) {
	dob := MustParseDate("1990-03-14")

	if !dob.OnDay(time.March, 14) {
		t.Error("expected 1990-03-14 to match March 14 in any year")
	}
	if dob.OnDay(time.March, 15) {
		t.Error("did not expect a match on March 15")
	}
	if dob.OnDay(time.April, 14) {
		t.Error("did not expect a match on April 14")
	}
	if (Date{}).OnDay(time.January, 1) {
		t.Error("zero date must never match")
	}
}

func TestDateString(t *testing.T) {
	tests := map[string]Date{
		"1990-03-14": MustParseDate("1990-03-14"),
		"--07-04":    MustParseDate("--07-04"),
		"":           {},
	}
	for want, d := range tests {
		if got := d.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestValidMonthDay(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  bool
	}{
		{time.February, 29, true},
		{time.February, 30, false},
		{time.April, 31, false},
		{time.December, 31, true},
		{0, 1, false},
		{13, 1, false},
		{time.June, 0, false},
	}
	for _, tt := range tests {
		if got := ValidMonthDay(tt.month, tt.day); got != tt.want {
			t.Errorf("ValidMonthDay(%v, %d) = %v, want %v", tt.month, tt.day, got, tt.want)
		}
	}
}
