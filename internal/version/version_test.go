package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withPlain(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestColoredPlain(t *testing.T) {
	withPlain(t)
	assert.Equal(t, Version, Colored())
}

func TestColoredKeepsUnparsableVersion(t *testing.T) {
	withPlain(t)
	prev := Version
	t.Cleanup(func() { Version = prev })

	Version = "nightly"
	assert.Equal(t, "nightly", Colored())
}

func TestBannerOptionalFields(t *testing.T) {
	withPlain(t)
	prevCommit, prevDate := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = prevCommit, prevDate })

	GitCommit, BuildDate = "", ""
	assert.Equal(t, "projector "+Version+"\n", Banner())

	GitCommit, BuildDate = "abc123", "2026-01-15T10:30:00Z"
	b := Banner()
	assert.Contains(t, b, "commit: abc123")
	assert.Contains(t, b, "built:  2026-01-15T10:30:00Z")
}
