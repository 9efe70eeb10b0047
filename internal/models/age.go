package models

import "time"

// DateLayout is the ISO date format used for dob
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date, ignoring any time part
func ParseDate(s string) (time.Time, bool) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeOn returns the age in whole years on the given day. The year only
// counts once the birthday has been reached.
func AgeOn(dob string, today time.Time) (int, bool) {
	born, ok := ParseDate(dob)
	if !ok {
		return 0, false
	}
	age := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// Age of the member on the given day
func (m FamilyMember) Age(today time.Time) (int, bool) {
	return AgeOn(m.DOB, today)
}

// Minimum marriage ages
const (
	MinMarriageAgeMale   = 21
	MinMarriageAgeFemale = 18
)

// IsMarriageable reports whether a single member has reached the minimum
// marriage age for their gender.
func (m FamilyMember) IsMarriageable(today time.Time) bool {
	if m.MaritalStatus != MaritalSingle {
		return false
	}
	age, ok := m.Age(today)
	if !ok {
		return false
	}
	switch m.Gender {
	case GenderMale:
		return age >= MinMarriageAgeMale
	case GenderFemale:
		return age >= MinMarriageAgeFemale
	}
	return false
}

// AgeBucket labels used by the dashboard
const (
	AgeUnder18 = "<18"
	Age18To34  = "18-34"
	Age35To59  = "35-59"
	Age60Plus  = "60+"
	AgeUnknown = "unknown"
)

// AgeBucket places the member in a dashboard age band
func (m FamilyMember) AgeBucket(today time.Time) string {
	age, ok := m.Age(today)
	switch {
	case !ok:
		return AgeUnknown
	case age < 18:
		return AgeUnder18
	case age < 35:
		return Age18To34
	case age < 60:
		return Age35To59
	default:
		return Age60Plus
	}
}
