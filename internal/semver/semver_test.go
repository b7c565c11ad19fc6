package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	c := MustParseConstraint("^1.2.0")

	assert.True(t, Satisfies(MustParseVersion("1.2.0"), c))
	assert.True(t, Satisfies(MustParseVersion("1.9.9"), c))
	assert.False(t, Satisfies(MustParseVersion("2.0.0"), c))
}

func TestParseConstraint_CargoDialect(t *testing.T) {
	tests := []struct {
		req     string
		version string
		want    bool
	}{
		{"1.0", "1.2.0", true},
		{"1.0", "2.0.0", false},
		{"0.3", "0.3.9", true},
		{"0.3", "0.4.0", false},
		{"=1.2.3", "1.2.4", false},
		{">=1.2, <1.5", "1.4.0", true},
		{">=1.2, <1.5", "1.5.0", false},
		{"~1.4", "1.4.7", true},
		{"*", "42.0.0", true},
		{"", "0.0.1", true},
		{"1.*", "1.7.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.req+"/"+tt.version, func(t *testing.T) {
			c, err := ParseConstraint(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Satisfies(MustParseVersion(tt.version), c))
		})
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	_, err := ParseConstraint(">=not-a-version")
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("1.2.0", "1.0"))
	assert.False(t, Matches("garbage", "1.0"))
	assert.False(t, Matches("1.2.0", "<<<"))
}

func TestConstraint_String(t *testing.T) {
	assert.Equal(t, "1.0", MustParseConstraint(" 1.0 ").String())
}
