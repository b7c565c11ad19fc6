package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input   string
		rating  Rating
		name    string
		display string
	}{
		{"", Restricted, "no license", "no license"},
		{"   ", Restricted, "no license", "no license"},
		{"MIT", Notice, "MIT", "MIT"},
		{"MIT OR Apache-2.0", Notice, "MIT", "MIT OR Apache-2.0"},
		{"GPL-3.0 AND MIT", Restricted, "GPL-3.0", "GPL-3.0 AND MIT"},
		{"Unlicense/Apache-2.0", Unencumbered, "Unlicense", "Unlicense OR Apache-2.0"},
		{"Unlicense AND Apache-2.0", Notice, "Apache-2.0", "Unlicense AND Apache-2.0"},
		{"MIT OR Apache-2.0 OR Unlicense", Unencumbered, "Unlicense", "MIT OR (Apache-2.0 OR Unlicense)"},
		{"MIT / Apache-2.0", Notice, "MIT", "MIT OR Apache-2.0"},
		{"MIT/Apache-2.0", Notice, "MIT", "MIT OR Apache-2.0"},
		{"(MIT OR Apache-2.0) AND BSD-3-Clause", Notice, "MIT", "(MIT OR Apache-2.0) AND BSD-3-Clause"},
		{"MIT AND Apache-2.0 OR Unlicense", Unencumbered, "Unlicense", "(MIT AND Apache-2.0) OR Unlicense"},
		{"Apache-2.0 WITH LLVM-exception OR MIT", Notice, "Apache-2.0 WITH LLVM-exception", "Apache-2.0 WITH LLVM-exception OR MIT"},
		{"mit or Apache-2.0", Notice, "Apache-2.0", "mit OR Apache-2.0"},
		{"MPL-2.0+", Reciprocal, "MPL-2.0+", "MPL-2.0+"},
		{"GPL-2.0+", Restricted, "GPL-2.0+", "GPL-2.0+"},
		{"OFL-1.1 AND MIT", ByExceptionOnly, "OFL-1.1", "OFL-1.1 AND MIT"},
		{"AGPL-3.0-only OR MIT", Notice, "MIT", "AGPL-3.0-only OR MIT"},
		{"CC-BY-NC-SA-4.0", Disallowed, "CC-BY-NC-SA-4.0", "CC-BY-NC-SA-4.0"},
		{"MIT AND (", Restricted, "MIT AND (", "MIT AND ( (failed to parse)"},
		{"OR MIT", Restricted, "OR MIT", "OR MIT (failed to parse)"},
		{"(MIT", Restricted, "(MIT", "(MIT (failed to parse)"},
		{"MIT WITH", Restricted, "MIT WITH", "MIT WITH (failed to parse)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Evaluate(tt.input)
			assert.Equal(t, tt.rating, got.Rating)
			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, tt.display, got.Display)
		})
	}
}

func TestEvaluate_Monotonic(t *testing.T) {
	representatives := map[Rating]string{
		Unencumbered:    "CC0-1.0",
		Notice:          "MIT",
		Reciprocal:      "MPL-2.0",
		ByExceptionOnly: "OFL-1.0",
		Restricted:      "GPL-3.0",
		Disallowed:      "WTFPL",
	}

	for a, left := range representatives {
		for b, right := range representatives {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			assert.Equal(t, hi, Evaluate(left+" AND "+right).Rating, "%s AND %s", left, right)
			assert.Equal(t, lo, Evaluate(left+" OR "+right).Rating, "%s OR %s", left, right)
		}
	}
}

func TestRating(t *testing.T) {
	assert.Less(t, int(Unencumbered), int(Notice))
	assert.Less(t, int(Restricted), int(Disallowed))

	tests := []struct {
		rating Rating
		bazel  string
		name   string
	}{
		{Unencumbered, "unencumbered", "unencumbered"},
		{Notice, "notice", "notice"},
		{Reciprocal, "reciprocal", "reciprocal"},
		{ByExceptionOnly, "restricted", "by_exception_only"},
		{Restricted, "restricted", "restricted"},
		{Disallowed, "restricted", "disallowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bazel, tt.rating.BazelRating())
			assert.Equal(t, tt.name, tt.rating.String())

			text, err := tt.rating.MarshalText()
			assert.NoError(t, err)
			var parsed Rating
			assert.NoError(t, parsed.UnmarshalText(text))
			assert.Equal(t, tt.rating, parsed)
		})
	}

	var r Rating
	assert.Error(t, r.UnmarshalText([]byte("copyleft")))
}

func TestRate(t *testing.T) {
	assert.Equal(t, Notice, Rate("BSL-1.0"))
	assert.Equal(t, Restricted, Rate("BSD-2-Clause"))
	assert.Equal(t, Restricted, Rate("0BSD"))
	assert.Equal(t, Disallowed, Rate("CC-BY-NC-ND-2.5"))
	assert.Equal(t, Restricted, Rate("+"))
}
