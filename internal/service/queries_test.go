package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/booklet"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

func queryFixture(t *testing.T) *DirectoryService {
	t.Helper()

	h1 := person("h1", "f1", "Ramesh Shah", "1970-01-01", "9825012345", true)
	h1.BloodGroup = "B+"
	h1.Gotra = "Kashyap"

	d1 := person("d1", "f1", "Kavita Shah", "2000-01-01", "", false)
	d1.Gender = models.GenderFemale
	d1.MaritalStatus = models.MaritalSingle
	d1.Education = "B.Com"
	d1.BloodGroup = "A+"

	d2 := person("d2", "f1", "Nilesh Shah", "2001-01-01", "", false)
	d2.MaritalStatus = models.MaritalSingle
	d2.Status = models.StatusPending
	d2.BloodGroup = "O+"

	h2 := person("h2", "f2", "Pending Person", "1985-01-01", "9825000001", true)
	h2.Status = models.StatusPending

	h3 := person("h3", "f3", "Hidden Person", "1950-01-01", "", true)
	h3.Gender = models.GenderFemale
	h3.Status = models.StatusRejected

	return newTestDirectory(t, h1, d1, d2, h2, h3)
}

func ids(members []models.FamilyMember) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.ID
	}
	return out
}

func TestMembersVisibility(t *testing.T) {
	svc := queryFixture(t)

	assert.Equal(t, []string{"h1", "d1", "d2", "h2", "h3"}, ids(svc.Members(adminUser)))
	assert.Equal(t, []string{"h1", "d1", "h2"}, ids(svc.Members(plainUser)))

	stranger := &models.User{ID: "user-9000000000", Mobile: "9000000000", Role: models.RoleUser}
	assert.Equal(t, []string{"h1", "d1"}, ids(svc.Members(stranger)))

	_, err := svc.Member(stranger, "h2")
	assert.ErrorIs(t, err, ErrMemberNotFound)
	m, err := svc.Member(plainUser, "h2")
	require.NoError(t, err)
	assert.Equal(t, "Pending Person", m.FullName)
}

func TestVisibleFamilies(t *testing.T) {
	svc := queryFixture(t)

	families := svc.VisibleFamilies(plainUser)
	require.Len(t, families, 2)
	assert.Equal(t, "f1", families[0].Household.ID)
	assert.Equal(t, "h1", families[0].Head.ID)
	assert.Equal(t, []string{"h1", "d1"}, ids(families[0].Members))
	assert.Equal(t, "f2", families[1].Household.ID)

	assert.Len(t, svc.VisibleFamilies(adminUser), 3)
}

func TestFamilyTree(t *testing.T) {
	svc := queryFixture(t)

	_, err := svc.FamilyTree(plainUser, "f3")
	assert.ErrorIs(t, err, ErrFamilyNotFound)

	_, err = svc.FamilyTree(adminUser, "nope")
	assert.ErrorIs(t, err, ErrFamilyNotFound)

	roots, err := svc.FamilyTree(adminUser, "f1")
	require.NoError(t, err)
	assert.NotEmpty(t, roots)
}

func TestMatrimonial(t *testing.T) {
	svc := queryFixture(t)

	// d2 is marriageable but still pending
	assert.Equal(t, []string{"d1"}, ids(svc.Matrimonial(MatrimonialFilter{})))
	assert.Empty(t, svc.Matrimonial(MatrimonialFilter{Gender: "Male"}))
	assert.Equal(t, []string{"d1"}, ids(svc.Matrimonial(MatrimonialFilter{Education: "b.com"})))
	assert.Empty(t, svc.Matrimonial(MatrimonialFilter{Query: "Mehta"}))
}

func TestBloodDonors(t *testing.T) {
	svc := queryFixture(t)

	assert.Equal(t, []string{"d1", "h1"}, ids(svc.BloodDonors(BloodFilter{})))
	assert.Equal(t, []string{"h1"}, ids(svc.BloodDonors(BloodFilter{Group: "b+"})))
	assert.Equal(t, []string{"h1"}, ids(svc.BloodDonors(BloodFilter{Query: "kashyap"})))
}

func TestStats(t *testing.T) {
	svc := queryFixture(t)

	st := svc.Stats()
	assert.Equal(t, 3, st.Families)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 3, st.Males)
	assert.Equal(t, 2, st.Females)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 2, st.Marriageable)
	assert.Equal(t, 0, st.AgeBuckets[models.AgeUnder18])
	assert.Equal(t, 2, st.AgeBuckets[models.Age18To34])
	assert.Equal(t, 2, st.AgeBuckets[models.Age35To59])
	assert.Equal(t, 1, st.AgeBuckets[models.Age60Plus])
	assert.Greater(t, st.AvgCompletion, 0)
}

func TestBookletPlans(t *testing.T) {
	svc := queryFixture(t)

	plan := svc.BookletPlan("en")
	require.Len(t, plan.Heads, 1, "only f1 has a printable member")
	assert.Equal(t, "h1", plan.Heads[0].ID)
	assert.True(t, plan.Has(booklet.SectionBiodata))

	single, err := svc.FamilyPlan(plainUser, "f1", "en")
	require.NoError(t, err)
	assert.Equal(t, booklet.ModeSingle, single.Mode)
	require.Len(t, single.Biodata, 1)
	assert.Equal(t, "h1", single.Biodata[0].Blocks[0].Head.ID)

	_, err = svc.FamilyPlan(plainUser, "f3", "en")
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}
