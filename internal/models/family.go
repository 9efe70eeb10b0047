package models

// Household groups the members sharing a familyId. It always has exactly
// one head, which is also listed in MemberIDs.
type Household struct {
	ID           string   `json:"id"`
	HeadMemberID string   `json:"headMemberId"`
	MemberIDs    []string `json:"memberIds"`
}

// Size is the number of members in the household
func (h Household) Size() int {
	return len(h.MemberIDs)
}

// Contains reports whether the member belongs to the household
func (h Household) Contains(memberID string) bool {
	for _, id := range h.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// FamilyWithMembers is a household with its member records resolved
type FamilyWithMembers struct {
	Household Household      `json:"household"`
	Head      FamilyMember   `json:"head"`
	Members   []FamilyMember `json:"members"`
}
