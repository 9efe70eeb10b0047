package models

// Role of a logged-in user
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is the identity attached to a request
type User struct {
	ID     string `json:"id"`
	Mobile string `json:"mobile,omitempty"`
	Role   Role   `json:"role"`
	Name   string `json:"name,omitempty"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AppState is the whole persisted aggregate, saved as one blob
type AppState struct {
	Members     []FamilyMember  `json:"members"`
	Settings    SansthaSettings `json:"settings"`
	CurrentUser *User           `json:"currentUser"`
}

// Clone returns a copy whose slices can be modified without touching s
func (s AppState) Clone() AppState {
	out := s
	out.Members = CloneMembers(s.Members)
	out.Settings.CommitteeMembers = append([]CommitteeMember(nil), s.Settings.CommitteeMembers...)
	out.Settings.OtherMembers = append([]CommitteeMember(nil), s.Settings.OtherMembers...)
	out.Settings.Sponsors = append([]Sponsor(nil), s.Settings.Sponsors...)
	out.Settings.DeceasedMembers = append([]DeceasedMember(nil), s.Settings.DeceasedMembers...)
	out.Settings.Advertisements = append([]string(nil), s.Settings.Advertisements...)
	if s.Settings.Translations != nil {
		out.Settings.Translations = make(map[string]string, len(s.Settings.Translations))
		for k, v := range s.Settings.Translations {
			out.Settings.Translations[k] = v
		}
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

// CloneMembers copies a member slice including each member's documents
func CloneMembers(members []FamilyMember) []FamilyMember {
	if members == nil {
		return nil
	}
	out := make([]FamilyMember, len(members))
	for i, m := range members {
		m.Documents = append([]Document(nil), m.Documents...)
		out[i] = m
	}
	return out
}
