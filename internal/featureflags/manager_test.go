package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("eligible_email=on,media_webp=true,search_boost=1,legacy_pages=off,dark_mode=false,beta_banner=0")

	assert.True(t, m.Enabled("eligible_email", 1))
	assert.True(t, m.Enabled("media_webp", 1))
	assert.True(t, m.Enabled("search_boost", 1))

	assert.False(t, m.Enabled("legacy_pages", 1))
	assert.False(t, m.Enabled("dark_mode", 1))
	assert.False(t, m.Enabled("beta_banner", 1))
}

func TestEnabled_PercentageRollouts(t *testing.T) {
	m := NewManager("eligible_email=100%,legacy_pages=0%,new_detail_view=25%")

	assert.True(t, m.Enabled("eligible_email", 1))
	assert.False(t, m.Enabled("legacy_pages", 1))

	// A given user must land on the same side of a partial rollout
	// every time.
	first := m.Enabled("new_detail_view", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("new_detail_view", 42))
	}

	assert.False(t, m.Enabled("new_detail_view", 0), "anonymous callers stay outside partial rollouts")
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,eligible_email=on, new_detail_view = 20% ,legacy_pages=off ")

	raw := m.Raw()
	require.Len(t, raw, 3)
	assert.Equal(t, "on", raw["eligible_email"])
	assert.Equal(t, "20%", raw["new_detail_view"])
	assert.Equal(t, "off", raw["legacy_pages"])

	snap := m.Snapshot(123)
	assert.Len(t, snap, 3)
}
