package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion_DefaultValues(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, Version, Current().Version)
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123def456", info.GitCommit)
	assert.Equal(t, "2024-01-15T10:30:00Z", info.BuildDate)

	banner := Banner(false)
	assert.True(t, strings.HasPrefix(banner, "uscheck 1.2.3\n"), banner)
	assert.Contains(t, banner, "commit: abc123def456")
	assert.Contains(t, banner, "built:  2024-01-15T10:30:00Z")
}

func TestColorize(t *testing.T) {
	tests := []string{
		"0.1.0",
		"2.0.0-alpha",
		"1.0.0-beta.1",
		"1.2.3-rc.1+build.123",
		"not-a-version",
	}
	for _, v := range tests {
		assert.Equal(t, v, Colorize(v, false), v)
	}
	colored := Colorize("1.2.3-dev", true)
	assert.NotEqual(t, "1.2.3-dev", colored)
	assert.True(t, strings.HasSuffix(colored, "-dev"))
}
