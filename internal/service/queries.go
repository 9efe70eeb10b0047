package service

import (
	"sort"
	"strings"

	"github.com/umehtaji1981-tech/samaj-setu/internal/booklet"
	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/household"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// visible reports whether actor may read m. Admins read everything;
// others read approved entries and anything in their own family.
func (s *DirectoryService) visible(actor *models.User, m models.FamilyMember) bool {
	if actor.IsAdmin() || m.Visible() {
		return true
	}
	return s.ownsFamily(actor, household.FamilyKey(m))
}

// Members returns the members actor may read, in store order
func (s *DirectoryService) Members(actor *models.User) []models.FamilyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FamilyMember, 0, len(s.state.Members))
	for _, m := range s.state.Members {
		if s.visible(actor, m) {
			out = append(out, m)
		}
	}
	return models.CloneMembers(out)
}

// Member returns one member. Records actor may not read are reported as
// not found.
func (s *DirectoryService) Member(actor *models.User, id string) (models.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.find(id)
	if !ok || !s.visible(actor, m) {
		return models.FamilyMember{}, ErrMemberNotFound
	}
	return models.CloneMembers([]models.FamilyMember{m})[0], nil
}

// VisibleFamilies lists the households actor may browse. Admins see all;
// others see families with an approved member or one carrying their
// mobile number, limited to the members they may read.
func (s *DirectoryService) VisibleFamilies(actor *models.User) []models.FamilyWithMembers {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.FamilyWithMembers
	for _, g := range household.GroupByFamily(s.state.Members) {
		var members []models.FamilyMember
		for _, m := range g.Members {
			if s.visible(actor, m) {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			continue
		}
		visibleGroup := household.Group{FamilyID: g.FamilyID, Members: models.CloneMembers(members)}
		out = append(out, models.FamilyWithMembers{
			Household: visibleGroup.Household(),
			Head:      visibleGroup.Head(),
			Members:   visibleGroup.Members,
		})
	}
	if out == nil {
		out = []models.FamilyWithMembers{}
	}
	return out
}

// Households derives the household aggregates of the whole directory
func (s *DirectoryService) Households() []models.Household {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return household.Build(s.state.Members)
}

// FamilyTree builds the tree of one family from the members actor may read
func (s *DirectoryService) FamilyTree(actor *models.User, familyID string) ([]*household.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := household.Find(s.state.Members, familyID)
	if !ok {
		return nil, ErrFamilyNotFound
	}
	var members []models.FamilyMember
	for _, m := range g.Members {
		if s.visible(actor, m) {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, ErrFamilyNotFound
	}
	return household.Tree(models.CloneMembers(members)), nil
}

// MatrimonialFilter narrows the matrimonial listing. Empty fields match
// everything.
type MatrimonialFilter struct {
	Gender    string
	Education string
	Query     string
}

// Matrimonial lists approved members of marriageable age and status
func (s *DirectoryService) Matrimonial(f MatrimonialFilter) []models.FamilyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	out := []models.FamilyMember{}
	for _, m := range s.state.Members {
		if !m.Visible() || !m.IsMarriageable(today) {
			continue
		}
		if f.Gender != "" && !strings.EqualFold(m.Gender, f.Gender) {
			continue
		}
		if f.Education != "" && !containsFold(m.Education, f.Education) {
			continue
		}
		if f.Query != "" && !matchesQuery(m, f.Query) {
			continue
		}
		out = append(out, m)
	}
	return models.CloneMembers(out)
}

// BloodFilter narrows the blood donor listing
type BloodFilter struct {
	Group string
	Query string
}

// BloodDonors lists approved members with a recorded blood group, sorted
// by group then name
func (s *DirectoryService) BloodDonors(f BloodFilter) []models.FamilyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.FamilyMember{}
	for _, m := range s.state.Members {
		if !m.Visible() || strings.TrimSpace(m.BloodGroup) == "" {
			continue
		}
		if f.Group != "" && !strings.EqualFold(m.BloodGroup, f.Group) {
			continue
		}
		if f.Query != "" && !matchesQuery(m, f.Query) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BloodGroup != out[j].BloodGroup {
			return out[i].BloodGroup < out[j].BloodGroup
		}
		return dedup.NormalizeName(out[i].FullName) < dedup.NormalizeName(out[j].FullName)
	})
	return models.CloneMembers(out)
}

func matchesQuery(m models.FamilyMember, q string) bool {
	for _, field := range []string{m.FullName, m.NativeName, m.CurrentAddress.City, m.NativePlace, m.Gotra, m.Occupation} {
		if containsFold(field, q) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

// Stats is the admin dashboard summary
type Stats struct {
	Families      int            `json:"families"`
	Total         int            `json:"total"`
	Males         int            `json:"males"`
	Females       int            `json:"females"`
	Pending       int            `json:"pending"`
	Marriageable  int            `json:"marriageable"`
	AgeBuckets    map[string]int `json:"ageBuckets"`
	AvgCompletion int            `json:"avgCompletion"`
}

// Stats summarizes the directory
func (s *DirectoryService) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	st := Stats{
		Families: len(household.GroupByFamily(s.state.Members)),
		Total:    len(s.state.Members),
		AgeBuckets: map[string]int{
			models.AgeUnder18: 0,
			models.Age18To34:  0,
			models.Age35To59:  0,
			models.Age60Plus:  0,
		},
	}
	completion := 0
	for _, m := range s.state.Members {
		switch m.Gender {
		case models.GenderMale:
			st.Males++
		case models.GenderFemale:
			st.Females++
		}
		if m.Status == models.StatusPending {
			st.Pending++
		}
		if m.IsMarriageable(today) {
			st.Marriageable++
		}
		st.AgeBuckets[m.AgeBucket(today)]++
		completion += m.Completeness()
	}
	if st.Total > 0 {
		st.AvgCompletion = completion / st.Total
	}
	return st
}

func (s *DirectoryService) bookletOptions(lang string) booklet.Options {
	return booklet.Options{
		BiodataPerPage:  s.biodataPerPage,
		ContactsPerPage: s.contactsPerPage,
		Language:        lang,
		Today:           s.now(),
	}
}

// BookletPlan lays out the full community booklet
func (s *DirectoryService) BookletPlan(lang string) booklet.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state.Clone()
	return booklet.BuildBooklet(state.Members, state.Settings, s.bookletOptions(lang))
}

// FamilyPlan lays out a single family print
func (s *DirectoryService) FamilyPlan(actor *models.User, familyID, lang string) (booklet.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := household.Find(s.state.Members, familyID)
	if !ok || !s.visible(actor, g.Head()) {
		return booklet.Plan{}, ErrFamilyNotFound
	}
	state := s.state.Clone()
	return booklet.BuildSingle(g.Head(), state.Members, state.Settings, s.bookletOptions(lang)), nil
}
