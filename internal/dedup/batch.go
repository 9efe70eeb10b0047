package dedup

import "github.com/umehtaji1981-tech/samaj-setu/internal/models"

// FilterBatch drops candidates that strictly duplicate an existing member
// or a candidate accepted earlier in the same batch. Only the strict rule
// applies; name-only matches are kept.
func FilterBatch(candidates, existing []models.FamilyMember) (accepted []models.FamilyMember, duplicates int) {
	seen := make([]key, 0, len(existing)+len(candidates))
	for _, m := range existing {
		seen = append(seen, keyOf(m))
	}

	for _, cand := range candidates {
		c := keyOf(cand)
		if isStrictDuplicate(c, seen) {
			duplicates++
			continue
		}
		accepted = append(accepted, cand)
		seen = append(seen, c)
	}
	return accepted, duplicates
}

func isStrictDuplicate(c key, seen []key) bool {
	for _, m := range seen {
		if c.id != "" && m.id == c.id {
			continue
		}
		if _, ok := strictField(c, m); ok {
			return true
		}
	}
	return false
}
