package booklet

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/umehtaji1981-tech/samaj-setu/internal/household"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// languageTags maps the UI language names to collation tags
var languageTags = map[string]language.Tag{
	"english":  language.English,
	"en":       language.English,
	"gujarati": language.Gujarati,
	"gu":       language.Gujarati,
	"hindi":    language.Hindi,
	"hi":       language.Hindi,
	"marathi":  language.Marathi,
	"mr":       language.Marathi,
}

// Tag resolves a language name or BCP 47 code
func Tag(lang string) language.Tag {
	l := strings.ToLower(strings.TrimSpace(lang))
	if t, ok := languageTags[l]; ok {
		return t
	}
	if t, err := language.Parse(l); err == nil {
		return t
	}
	return language.Und
}

// printable reports whether the family belongs in the booklet
func printable(m models.FamilyMember) bool {
	return m.Status == models.StatusApproved || m.Status == models.StatusDraft
}

// SelectHeads picks one head per printable family and orders the heads
// by display name in the collation order of lang.
func SelectHeads(members []models.FamilyMember, lang string) []models.FamilyMember {
	var heads []models.FamilyMember
	for _, g := range household.GroupByFamily(members) {
		if !g.Any(printable) {
			continue
		}
		heads = append(heads, g.Head())
	}
	SortByDisplayName(heads, lang)
	return heads
}

// SortByDisplayName sorts members in place, ascending. Ties keep their
// input order.
func SortByDisplayName(members []models.FamilyMember, lang string) {
	c := collate.New(Tag(lang))
	sort.SliceStable(members, func(i, j int) bool {
		return c.CompareString(members[i].DisplayName(lang), members[j].DisplayName(lang)) < 0
	})
}

// Dependents returns the other members of head's family in store order
func Dependents(head models.FamilyMember, members []models.FamilyMember) []models.FamilyMember {
	key := household.FamilyKey(head)
	var out []models.FamilyMember
	for _, m := range members {
		if household.FamilyKey(m) == key && m.ID != head.ID {
			out = append(out, m)
		}
	}
	return out
}
