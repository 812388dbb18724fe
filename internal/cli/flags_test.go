package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	f := &Flags{
		ProjectPath:       "/project",
		Processors:        3,
		Browsers:          []string{"chrome", "firefox"},
		Docker:            true,
		IntentionallyFail: true,
		NameFilter:        "*Cart*",
		ShowPlan:          true,
		Output:            "out.html",
	}

	got := f.ToConfigFlags()
	assert.Equal(t, 3, got.Processors)
	assert.Equal(t, []string{"chrome", "firefox"}, got.Browsers)
	assert.True(t, got.Docker)
	assert.True(t, got.IntentionallyFail)
	assert.False(t, got.Headed)
	assert.Equal(t, "*Cart*", got.NameFilter)
	assert.True(t, got.ShowPlan)
	assert.Equal(t, "out.html", got.Output)
}
