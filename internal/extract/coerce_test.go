package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

func TestCoerceDefaults(t *testing.T) {
	m := Coerce(map[string]any{})

	assert.Equal(t, DefaultName, m.FullName)
	assert.Equal(t, models.GenderMale, m.Gender)
	assert.Equal(t, models.MaritalSingle, m.MaritalStatus)
	assert.Equal(t, models.StatusApproved, m.Status)
	assert.Equal(t, "Member", m.RelationToHead)
	assert.Equal(t, DefaultCountry, m.CurrentAddress.Country)
	assert.Equal(t, PlaceholderDOB, m.DOB)
	assert.Empty(t, m.FamilyID)
}

func TestCoerceLooseValues(t *testing.T) {
	data := []byte(`[{
		"fullName": "  Kokila Mehta ",
		"gender": "female",
		"maritalStatus": "married",
		"dob": "05/08/1972",
		"mobile": 9825012345,
		"bloodGroup": "b+",
		"isHeadOfFamily": "true",
		"familyGroupIndex": 2,
		"currentAddress": {"street": "4 Relief Road", "city": "Ahmedabad", "pincode": 380001}
	}]`)

	members, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, members, 1)
	m := members[0]

	assert.Equal(t, "Kokila Mehta", m.FullName)
	assert.Equal(t, models.GenderFemale, m.Gender)
	assert.Equal(t, models.MaritalMarried, m.MaritalStatus)
	assert.Equal(t, "1972-08-05", m.DOB)
	assert.Equal(t, "9825012345", m.Mobile)
	assert.Equal(t, "B+", m.BloodGroup)
	assert.True(t, m.IsHeadOfFamily)
	assert.Equal(t, "Self", m.RelationToHead)
	assert.Equal(t, "group:2", m.FamilyID)
	assert.Equal(t, models.Address{Street: "4 Relief Road", City: "Ahmedabad", Pincode: "380001", Country: "India"}, m.CurrentAddress)
}

func TestCoerceUnknownValuesFallBack(t *testing.T) {
	m := Coerce(map[string]any{
		"fullName":       "X Y",
		"gender":         "unknown",
		"maritalStatus":  "complicated",
		"dob":            "sometime in the 80s",
		"currentAddress": "Near the temple, Modasa",
	})

	assert.Equal(t, models.GenderMale, m.Gender)
	assert.Equal(t, models.MaritalSingle, m.MaritalStatus)
	assert.Equal(t, PlaceholderDOB, m.DOB)
	assert.Equal(t, "Near the temple, Modasa", m.CurrentAddress.Street)
}

func TestDecodeShapes(t *testing.T) {
	wrapped, err := Decode([]byte(`{"members": [{"fullName": "A"}, {"fullName": "B"}, "noise"]}`))
	require.NoError(t, err)
	assert.Len(t, wrapped, 2)

	single, err := Decode([]byte(`{"fullName": "Solo"}`))
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "Solo", single[0].FullName)

	_, err = Decode([]byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrUnrecoverableResponse)
}

func TestFillPlaceholderDOB(t *testing.T) {
	in := []models.FamilyMember{{FullName: "A"}, {FullName: "B", DOB: "1975-01-01"}}

	out := FillPlaceholderDOB(in)

	assert.Equal(t, PlaceholderDOB, out[0].DOB)
	assert.Equal(t, "1975-01-01", out[1].DOB)
	assert.Empty(t, in[0].DOB, "input is not modified")
}

func TestFinalize(t *testing.T) {
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
	members := []models.FamilyMember{
		{FullName: "Head A", FamilyID: "group:0", IsHeadOfFamily: true},
		{FullName: "Solo"},
		{FullName: "Wife A", FamilyID: "group:0", DOB: "1975-01-01"},
		{FullName: "Head B", FamilyID: "group:1"},
	}

	out := Finalize(members, newID)

	require.Len(t, out, 4)
	assert.Equal(t, out[0].FamilyID, out[2].FamilyID)
	assert.NotEqual(t, out[0].FamilyID, out[3].FamilyID)
	assert.NotEqual(t, out[0].FamilyID, out[1].FamilyID)
	assert.NotEmpty(t, out[1].FamilyID)
	assert.Equal(t, PlaceholderDOB, out[0].DOB)
	assert.Equal(t, "1975-01-01", out[2].DOB)

	seen := map[string]bool{}
	for _, m := range out {
		assert.False(t, seen[m.ID], "ids must be unique")
		seen[m.ID] = true
	}
}
