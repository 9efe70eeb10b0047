package household

import "github.com/umehtaji1981-tech/samaj-setu/internal/models"

// Group is the members of one family in store order
type Group struct {
	FamilyID string
	Members  []models.FamilyMember
}

// FamilyKey is the family m belongs to. Members without a familyId form
// a family of their own, keyed by their id.
func FamilyKey(m models.FamilyMember) string {
	if m.FamilyID == "" {
		return m.ID
	}
	return m.FamilyID
}

// GroupByFamily groups members by FamilyKey, families in order of first
// appearance.
func GroupByFamily(members []models.FamilyMember) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, m := range members {
		id := FamilyKey(m)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{FamilyID: id})
		}
		groups[i].Members = append(groups[i].Members, m)
	}
	return groups
}

// SelectHead returns the first member flagged as head, or the first
// member when nobody is flagged.
func SelectHead(members []models.FamilyMember) (models.FamilyMember, bool) {
	if len(members) == 0 {
		return models.FamilyMember{}, false
	}
	for _, m := range members {
		if m.IsHeadOfFamily {
			return m, true
		}
	}
	return members[0], true
}

// Head of the group
func (g Group) Head() models.FamilyMember {
	h, _ := SelectHead(g.Members)
	return h
}

// Dependents are the group's members other than its head
func (g Group) Dependents() []models.FamilyMember {
	head := g.Head()
	out := make([]models.FamilyMember, 0, len(g.Members))
	for _, m := range g.Members {
		if m.ID != head.ID {
			out = append(out, m)
		}
	}
	return out
}

// Any reports whether some member satisfies pred
func (g Group) Any(pred func(models.FamilyMember) bool) bool {
	for _, m := range g.Members {
		if pred(m) {
			return true
		}
	}
	return false
}

// Household builds the aggregate for the group
func (g Group) Household() models.Household {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return models.Household{ID: g.FamilyID, HeadMemberID: g.Head().ID, MemberIDs: ids}
}

// Build derives one Household per family. Each has exactly one head even
// when the stored flags name none or several.
func Build(members []models.FamilyMember) []models.Household {
	groups := GroupByFamily(members)
	out := make([]models.Household, len(groups))
	for i, g := range groups {
		out[i] = g.Household()
	}
	return out
}

// Find returns the group for familyID
func Find(members []models.FamilyMember, familyID string) (Group, bool) {
	for _, g := range GroupByFamily(members) {
		if g.FamilyID == familyID {
			return g, true
		}
	}
	return Group{}, false
}
