package household

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

func TestSyncPushesHouseholdFields(t *testing.T) {
	head := models.FamilyMember{
		ID:                   "h",
		FamilyID:             "fam-1",
		IsHeadOfFamily:       true,
		CurrentAddress:       models.Address{Street: "12 MG Road", City: "Ahmedabad", State: "Gujarat", Pincode: "380001", Country: "India"},
		NativeCurrentAddress: "૧૨ એમ.જી. રોડ, અમદાવાદ",
		NativePlace:          "Modasa",
		NativeNativePlace:    "મોડાસા",
		Gotra:                "Kashyap",
		NativeGotra:          "કશ્યપ",
	}
	dependents := []models.FamilyMember{
		{ID: "d1", FullName: "Wife", FamilyID: "old", CurrentAddress: models.Address{City: "Surat"}, Mobile: "9000000001"},
		{ID: "d2", FullName: "Son", IsHeadOfFamily: true, CurrentAddress: models.Address{City: "Mumbai"}, Gotra: "Other"},
	}

	synced := Sync(head, dependents)

	require.Len(t, synced, 2)
	for _, d := range synced {
		assert.Equal(t, head.CurrentAddress, d.CurrentAddress)
		assert.Equal(t, head.FamilyID, d.FamilyID)
		assert.Equal(t, head.NativeCurrentAddress, d.NativeCurrentAddress)
		assert.Equal(t, head.NativePlace, d.NativePlace)
		assert.Equal(t, head.NativeNativePlace, d.NativeNativePlace)
		assert.Equal(t, head.Gotra, d.Gotra)
		assert.Equal(t, head.NativeGotra, d.NativeGotra)
		assert.False(t, d.IsHeadOfFamily)
	}
	assert.Equal(t, synced[0].CurrentAddress, synced[1].CurrentAddress)

	// personal fields are untouched
	assert.Equal(t, "Wife", synced[0].FullName)
	assert.Equal(t, "9000000001", synced[0].Mobile)
	// inputs are not modified
	assert.Equal(t, "Surat", dependents[0].CurrentAddress.City)
	assert.True(t, dependents[1].IsHeadOfFamily)
}

func TestUpsert(t *testing.T) {
	members := []models.FamilyMember{
		{ID: "a", FullName: "A"},
		{ID: "b", FullName: "B"},
		{ID: "c", FullName: "C"},
	}

	out := Upsert(members,
		models.FamilyMember{ID: "b", FullName: "B2"},
		models.FamilyMember{ID: "d", FullName: "D"},
		models.FamilyMember{ID: "a", FullName: "A2"},
		models.FamilyMember{ID: "e", FullName: "E"},
	)

	var names []string
	for _, m := range out {
		names = append(names, m.FullName)
	}
	assert.Equal(t, []string{"A2", "B2", "C", "D", "E"}, names)
	assert.Equal(t, "B", members[1].FullName, "input slice must not change")
}

func TestUpsertSameNewIDTwice(t *testing.T) {
	out := Upsert(nil,
		models.FamilyMember{ID: "n", FullName: "first"},
		models.FamilyMember{ID: "n", FullName: "second"},
	)
	require.Len(t, out, 1)
	assert.Equal(t, "second", out[0].FullName)
}

func TestRemove(t *testing.T) {
	members := []models.FamilyMember{{ID: "a"}, {ID: "b"}}

	out, ok := Remove(members, "a")
	assert.True(t, ok)
	assert.Len(t, out, 1)

	out, ok = Remove(members, "zz")
	assert.False(t, ok)
	assert.Len(t, out, 2)
}

func TestGroupByFamilyAndHeads(t *testing.T) {
	members := []models.FamilyMember{
		{ID: "1", FamilyID: "f1"},
		{ID: "2", FamilyID: "f2", IsHeadOfFamily: true},
		{ID: "3", FamilyID: "f1", IsHeadOfFamily: true},
		{ID: "4", FamilyID: "f2"},
		{ID: "5", FamilyID: "f3"},
		{ID: "6", FamilyID: "f3"},
		{ID: "7"},
	}

	groups := GroupByFamily(members)
	require.Len(t, groups, 4)
	assert.Equal(t, []string{"f1", "f2", "f3", "7"}, []string{groups[0].FamilyID, groups[1].FamilyID, groups[2].FamilyID, groups[3].FamilyID})

	assert.Equal(t, "3", groups[0].Head().ID, "flagged head wins over order")
	assert.Equal(t, "2", groups[1].Head().ID)
	assert.Equal(t, "5", groups[2].Head().ID, "first member when nobody is flagged")
	assert.Equal(t, "7", groups[3].Head().ID)

	deps := groups[0].Dependents()
	require.Len(t, deps, 1)
	assert.Equal(t, "1", deps[0].ID)
}

func TestFamilyKey(t *testing.T) {
	assert.Equal(t, "f1", FamilyKey(models.FamilyMember{ID: "1", FamilyID: "f1"}))
	assert.Equal(t, "2", FamilyKey(models.FamilyMember{ID: "2"}))
}

func TestBuildHasExactlyOneHead(t *testing.T) {
	members := []models.FamilyMember{
		{ID: "1", FamilyID: "f1", IsHeadOfFamily: true},
		{ID: "2", FamilyID: "f1", IsHeadOfFamily: true},
		{ID: "3", FamilyID: "f2"},
	}

	households := Build(members)
	require.Len(t, households, 2)

	assert.Equal(t, models.Household{ID: "f1", HeadMemberID: "1", MemberIDs: []string{"1", "2"}}, households[0])
	assert.Equal(t, models.Household{ID: "f2", HeadMemberID: "3", MemberIDs: []string{"3"}}, households[1])
	for _, h := range households {
		assert.True(t, h.Contains(h.HeadMemberID))
	}
}

func TestSelectHeadEmpty(t *testing.T) {
	_, ok := SelectHead(nil)
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	members := []models.FamilyMember{{ID: "1", FamilyID: "f1"}, {ID: "2", FamilyID: "f2"}}
	g, ok := Find(members, "f2")
	require.True(t, ok)
	assert.Equal(t, "2", g.Head().ID)

	_, ok = Find(members, "missing")
	assert.False(t, ok)
}

func TestTree(t *testing.T) {
	members := []models.FamilyMember{
		{ID: "head", IsHeadOfFamily: true},
		{ID: "son", ParentID: "head"},
		{ID: "grandchild", ParentID: "son"},
		{ID: "wife"},
		{ID: "orphan", ParentID: "someone-else"},
	}

	roots := Tree(members)

	var rootIDs []string
	for _, r := range roots {
		rootIDs = append(rootIDs, r.Member.ID)
	}
	assert.Equal(t, []string{"head", "wife", "orphan"}, rootIDs)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "son", roots[0].Children[0].Member.ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "grandchild", roots[0].Children[0].Children[0].Member.ID)
}

func TestTreeBreaksParentLoops(t *testing.T) {
	members := []models.FamilyMember{
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
		{ID: "self", ParentID: "self"},
	}

	roots := Tree(members)

	count := 0
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			count++
			walk(n.Children)
		}
	}
	walk(roots)
	assert.Equal(t, 3, count, "every member appears exactly once")
}
