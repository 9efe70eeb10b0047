package household

import "github.com/umehtaji1981-tech/samaj-setu/internal/models"

// Sync pushes the household fields of head onto each dependent and
// returns the updated copies. Dependents never keep the head flag.
func Sync(head models.FamilyMember, dependents []models.FamilyMember) []models.FamilyMember {
	out := make([]models.FamilyMember, len(dependents))
	for i, d := range dependents {
		d.FamilyID = head.FamilyID
		d.CurrentAddress = head.CurrentAddress
		d.NativeCurrentAddress = head.NativeCurrentAddress
		d.NativePlace = head.NativePlace
		d.NativeNativePlace = head.NativeNativePlace
		d.Gotra = head.Gotra
		d.NativeGotra = head.NativeGotra
		d.IsHeadOfFamily = false
		out[i] = d
	}
	return out
}

// Upsert replaces records whose id already exists in members, keeping
// their position, and appends the rest in the given order. members is
// not modified.
func Upsert(members []models.FamilyMember, records ...models.FamilyMember) []models.FamilyMember {
	out := make([]models.FamilyMember, len(members), len(members)+len(records))
	copy(out, members)

	index := make(map[string]int, len(out))
	for i, m := range out {
		index[m.ID] = i
	}
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// Remove drops the member with the given id, reporting whether it existed
func Remove(members []models.FamilyMember, id string) ([]models.FamilyMember, bool) {
	out := make([]models.FamilyMember, 0, len(members))
	found := false
	for _, m := range members {
		if m.ID == id {
			found = true
			continue
		}
		out = append(out, m)
	}
	return out, found
}
