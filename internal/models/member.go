package models

import "strings"

// MemberStatus is the lifecycle state of a directory entry
type MemberStatus string

const (
	StatusDraft    MemberStatus = "Draft"
	StatusPending  MemberStatus = "Pending"
	StatusApproved MemberStatus = "Approved"
	StatusRejected MemberStatus = "Rejected"
)

// Gender values
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Marital status values
const (
	MaritalSingle   = "Single"
	MaritalMarried  = "Married"
	MaritalDivorced = "Divorced"
	MaritalWidowed  = "Widowed"
)

// MaritalStatuses lists the accepted marital status values
var MaritalStatuses = []string{MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed}

// Address is a structured postal address
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// OneLine renders the non-empty address parts joined by commas
func (a Address) OneLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.Pincode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Document is an uploaded attachment such as an id proof
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// FamilyMember is one person's directory profile.
// JSON names match the saved AppState blob; new fields must stay optional.
type FamilyMember struct {
	ID                   string       `json:"id"`
	FullName             string       `json:"fullName" validate:"notblank"`
	NativeName           string       `json:"nativeName,omitempty"`
	Gender               string       `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	DOB                  string       `json:"dob" validate:"required,isodate"`
	MaritalStatus        string       `json:"maritalStatus" validate:"omitempty,oneof=Single Married Divorced Widowed"`
	BloodGroup           string       `json:"bloodGroup,omitempty"`
	Education            string       `json:"education,omitempty"`
	NativeEducation      string       `json:"nativeEducation,omitempty"`
	Occupation           string       `json:"occupation,omitempty"`
	NativeOccupation     string       `json:"nativeOccupation,omitempty"`
	Income               string       `json:"income,omitempty"`
	Gotra                string       `json:"gotra,omitempty"`
	NativeGotra          string       `json:"nativeGotra,omitempty"`
	NativePlace          string       `json:"nativePlace,omitempty"`
	NativeNativePlace    string       `json:"nativeNativePlace,omitempty"`
	CurrentAddress       Address      `json:"currentAddress"`
	NativeCurrentAddress string       `json:"nativeCurrentAddress,omitempty"`
	Mobile               string       `json:"mobile,omitempty"`
	Email                string       `json:"email,omitempty" validate:"omitempty,email"`
	FamilyID             string       `json:"familyId"`
	IsHeadOfFamily       bool         `json:"isHeadOfFamily"`
	RelationToHead       string       `json:"relationToHead,omitempty"`
	ParentID             string       `json:"parentId,omitempty"`
	SpouseName           string       `json:"spouseName,omitempty"`
	PhotoURL             string       `json:"photoUrl,omitempty"`
	Status               MemberStatus `json:"status" validate:"omitempty,oneof=Draft Pending Approved Rejected"`
	Bio                  string       `json:"bio,omitempty"`
	Height               string       `json:"height,omitempty"`
	Weight               string       `json:"weight,omitempty"`
	Documents            []Document   `json:"documents,omitempty"`
}

// IsEnglish reports whether lang selects the English labels
func IsEnglish(lang string) bool {
	l := strings.ToLower(strings.TrimSpace(lang))
	return l == "" || l == "en" || l == "english" || strings.HasPrefix(l, "en-")
}

// DisplayName is the native-script name for non-English output when one
// is recorded, otherwise the English name.
func (m FamilyMember) DisplayName(lang string) string {
	if !IsEnglish(lang) && strings.TrimSpace(m.NativeName) != "" {
		return m.NativeName
	}
	return m.FullName
}

// Completeness returns how much of the profile is filled in, 0-100
func (m FamilyMember) Completeness() int {
	fields := []string{
		m.FullName,
		m.DOB,
		m.Mobile,
		m.BloodGroup,
		m.Education,
		m.Occupation,
		m.Gotra,
		m.NativePlace,
		m.PhotoURL,
		m.CurrentAddress.City,
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// Visible reports whether directory readers other than admins may see the entry
func (m FamilyMember) Visible() bool {
	return m.Status == StatusApproved
}
