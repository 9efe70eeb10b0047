package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/household"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/validation"
)

func TestLoad(t *testing.T) {
	state, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Shree Gujrati Mode Vanik Samaj", state.Settings.Name)
	assert.Len(t, state.Settings.CommitteeMembers, 4)
	assert.Equal(t, "9827328228", state.Settings.CommitteeMembers[0].Mobile)
	require.Len(t, state.Members, 8)
	require.NotNil(t, state.CurrentUser)
	assert.True(t, state.CurrentUser.IsAdmin())

	groups := household.GroupByFamily(state.Members)
	assert.Len(t, groups, 3)

	for _, m := range state.Members {
		assert.NoError(t, validation.Struct(m), m.ID)
		assert.Equal(t, models.StatusApproved, m.Status)
		assert.Equal(t, "Burhanpur", m.CurrentAddress.City, m.ID)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("members: [unclosed"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	state, err := Parse([]byte("settings:\n  name: Test Samaj\n"))
	require.NoError(t, err)
	assert.Equal(t, "Test Samaj", state.Settings.Name)
	assert.NotNil(t, state.Members)
	assert.Empty(t, state.Members)
}
