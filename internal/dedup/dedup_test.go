package dedup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

func member(id, name, dob, mobile string, status models.MemberStatus) models.FamilyMember {
	return models.FamilyMember{ID: id, FullName: name, DOB: dob, Mobile: mobile, Status: status}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Raj   Shah ", "raj shah"},
		{"raj shah", "raj shah"},
		{"RAJ\tSHAH\n", "raj shah"},
		{"", ""},
		{"   ", ""},
		// precomposed and decomposed forms of the same letter
		{"José", "josé"},
		{"José", "josé"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "NormalizeName(%q)", tt.in)
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"  Raj   Shah ", "Mehta  Sunita", "રમેશ  શાહ", "ÀNAND Gandhi", ""}
	for _, in := range inputs {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "normalize is not idempotent for %q", in)
	}
	assert.Equal(t, NormalizeName("raj shah"), NormalizeName("  Raj   Shah "))
}

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "919876543210", NormalizeMobile("+91 98765-43210"))
	assert.Equal(t, "9876543210", NormalizeMobile("(98765) 43210"))
	assert.Equal(t, "", NormalizeMobile("n/a"))
}

func TestClassify(t *testing.T) {
	existing := []models.FamilyMember{
		member("1", "Ramesh Shah", "1970-05-12", "98250 12345", models.StatusApproved),
		member("2", "Sunita Mehta", "1975-09-01", "98250-99999", models.StatusDraft),
		member("3", "Anil Gandhi", "1982-02-02", "", models.StatusPending),
		member("4", "Anil Gandhi", "1960-01-01", "9000000000", models.StatusApproved),
	}

	tests := []struct {
		name         string
		candidate    models.FamilyMember
		wantKind     Kind
		wantField    Field
		wantConflict string
	}{
		{
			name:         "same mobile different name",
			candidate:    member("", "Someone Else", "1999-01-01", "9825012345", models.StatusPending),
			wantKind:     Strict,
			wantField:    FieldMobile,
			wantConflict: "1",
		},
		{
			name:      "same mobile as a draft is not strict",
			candidate: member("", "Other Person", "1999-01-01", "9825099999", models.StatusPending),
			wantKind:  Novel,
		},
		{
			name:         "same name and dob without mobile",
			candidate:    member("", "  ramesh   SHAH", "1970-05-12", "", models.StatusPending),
			wantKind:     Strict,
			wantField:    FieldNameDOB,
			wantConflict: "1",
		},
		{
			name:         "same name and dob with different mobile",
			candidate:    member("", "Sunita Mehta", "1975-09-01", "7000000000", models.StatusPending),
			wantKind:     Strict,
			wantField:    FieldNameDOB,
			wantConflict: "2",
		},
		{
			name:         "same name different dob is potential",
			candidate:    member("", "Ramesh Shah", "1971-01-01", "", models.StatusPending),
			wantKind:     Potential,
			wantField:    FieldName,
			wantConflict: "1",
		},
		{
			name:         "same name missing dob is potential",
			candidate:    member("", "Ramesh Shah", "", "", models.StatusPending),
			wantKind:     Potential,
			wantField:    FieldName,
			wantConflict: "1",
		},
		{
			name:         "first match in scan order is reported",
			candidate:    member("", "Anil Gandhi", "1999-09-09", "", models.StatusPending),
			wantKind:     Potential,
			wantField:    FieldName,
			wantConflict: "3",
		},
		{
			name:      "editing a record does not conflict with itself",
			candidate: member("1", "Ramesh Shah", "1970-05-12", "98250 12345", models.StatusApproved),
			wantKind:  Novel,
		},
		{
			name:      "unrelated member",
			candidate: member("", "Kiran Desai", "1990-01-01", "9111111111", models.StatusPending),
			wantKind:  Novel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.candidate, existing)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantField, res.Field)
			if tt.wantConflict == "" {
				assert.Nil(t, res.Conflict)
				return
			}
			require.NotNil(t, res.Conflict)
			assert.Equal(t, tt.wantConflict, res.Conflict.ID)
		})
	}
}

func TestClassifyShortNameIsNotPotential(t *testing.T) {
	existing := []models.FamilyMember{member("1", "Raj", "1980-01-01", "", models.StatusApproved)}

	res := Classify(member("", "raj", "1990-01-01", "", models.StatusPending), existing)
	assert.Equal(t, Novel, res.Kind)

	existing[0].FullName = "Raju"
	res = Classify(member("", "raju", "1990-01-01", "", models.StatusPending), existing)
	assert.Equal(t, Potential, res.Kind)
}

func TestCheckStrictMobileAcrossStatuses(t *testing.T) {
	for _, status := range []models.MemberStatus{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		a := member("a", "First Person", "1980-01-01", "98765 43210", status)
		b := member("b", "Second Person", "1990-01-01", "9876543210", models.StatusPending)

		_, err := Check(b, []models.FamilyMember{a})

		var dup *DuplicateRecordError
		require.True(t, errors.As(err, &dup), "status %s: expected duplicate error, got %v", status, err)
		assert.Equal(t, FieldMobile, dup.Field)
		assert.Equal(t, "a", dup.Conflict.ID)
	}
}

func TestCheckStrictNameDOBIgnoresMobile(t *testing.T) {
	a := member("a", "Meena Shah", "1985-03-03", "9000000001", models.StatusDraft)
	b := member("b", "meena  shah", "1985-03-03", "9000000002", models.StatusPending)

	_, err := Check(b, []models.FamilyMember{a})

	var dup *DuplicateRecordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, FieldNameDOB, dup.Field)
	assert.Contains(t, dup.Error(), "Meena Shah")
}

func TestCheckPotentialDoesNotBlock(t *testing.T) {
	a := member("a", "Meena Shah", "1985-03-03", "", models.StatusApproved)
	res, err := Check(member("", "Meena Shah", "", "", models.StatusPending), []models.FamilyMember{a})
	require.NoError(t, err)
	assert.Equal(t, Potential, res.Kind)
	assert.False(t, res.Blocks())
}

func TestFilterBatch(t *testing.T) {
	existing := []models.FamilyMember{
		member("x", "Existing Member", "1970-01-01", "9999900000", models.StatusApproved),
	}
	candidates := []models.FamilyMember{
		member("", "Alpha One", "1980-01-01", "9111111111", models.StatusApproved),
		member("", "Beta Two", "1981-01-01", "91111 11111", models.StatusApproved), // mobile of #1
		member("", "Gamma Three", "1982-01-01", "", models.StatusApproved),
		member("", "gamma  three", "1982-01-01", "", models.StatusApproved), // name+dob of #3
		member("", "Delta Four", "1983-01-01", "9222222222", models.StatusApproved),
	}

	accepted, duplicates := FilterBatch(candidates, existing)

	assert.Len(t, accepted, 3)
	assert.Equal(t, 2, duplicates)
	names := []string{accepted[0].FullName, accepted[1].FullName, accepted[2].FullName}
	assert.Equal(t, []string{"Alpha One", "Gamma Three", "Delta Four"}, names)
}

func TestFilterBatchAgainstExisting(t *testing.T) {
	existing := []models.FamilyMember{
		member("x", "Existing Member", "1970-01-01", "9999900000", models.StatusApproved),
	}
	candidates := []models.FamilyMember{
		member("", "Renamed", "2000-01-01", "99999-00000", models.StatusApproved),
		member("", "Existing Member", "1970-01-01", "", models.StatusApproved),
		member("", "Existing Member", "", "", models.StatusApproved),
	}

	accepted, duplicates := FilterBatch(candidates, existing)

	assert.Equal(t, 2, duplicates)
	require.Len(t, accepted, 1)
	assert.Equal(t, "", accepted[0].DOB, "name-only matches are kept in batch import")
}
