package dedup

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Kind is the outcome of a duplicate check
type Kind string

const (
	Novel     Kind = "novel"
	Potential Kind = "potential"
	Strict    Kind = "strict"
)

// Field identifies what matched
type Field string

const (
	FieldMobile  Field = "mobile"
	FieldNameDOB Field = "name+dob"
	FieldName    Field = "name"
)

// minPotentialNameLen is the normalized name length a name-only match
// must exceed before it is worth a warning
const minPotentialNameLen = 3

// Result describes the first conflicting record found, if any
type Result struct {
	Kind     Kind                 `json:"kind"`
	Field    Field                `json:"field,omitempty"`
	Conflict *models.FamilyMember `json:"conflict,omitempty"`
}

// Blocks reports whether the result must stop the write
func (r Result) Blocks() bool {
	return r.Kind == Strict
}

// DuplicateRecordError is returned when a strict duplicate blocks a write
type DuplicateRecordError struct {
	Field    Field
	Conflict models.FamilyMember
}

func (e *DuplicateRecordError) Error() string {
	switch e.Field {
	case FieldMobile:
		return fmt.Sprintf("mobile number is already registered to %s", e.Conflict.FullName)
	default:
		return fmt.Sprintf("%s with the same date of birth is already registered", e.Conflict.FullName)
	}
}

// key is the normalized identity of a member
type key struct {
	id     string
	name   string
	mobile string
	dob    string
	status models.MemberStatus
}

func keyOf(m models.FamilyMember) key {
	return key{
		id:     m.ID,
		name:   NormalizeName(m.FullName),
		mobile: NormalizeMobile(m.Mobile),
		dob:    strings.TrimSpace(m.DOB),
		status: m.Status,
	}
}

// strictField reports which strict rule c and m collide on, if any
func strictField(c, m key) (Field, bool) {
	if c.mobile != "" && c.mobile == m.mobile && m.status != models.StatusDraft {
		return FieldMobile, true
	}
	if c.name == m.name && c.dob != "" && c.dob == m.dob {
		return FieldNameDOB, true
	}
	return "", false
}

func potentialMatch(c, m key) bool {
	return utf8.RuneCountInString(c.name) > minPotentialNameLen && c.name == m.name
}

// Classify checks candidate against existing. Members sharing the
// candidate's id are skipped so an edit never conflicts with itself. The
// first match in scan order is reported.
func Classify(candidate models.FamilyMember, existing []models.FamilyMember) Result {
	c := keyOf(candidate)
	potential := -1

	for i := range existing {
		m := keyOf(existing[i])
		if c.id != "" && m.id == c.id {
			continue
		}
		if field, ok := strictField(c, m); ok {
			conflict := existing[i]
			return Result{Kind: Strict, Field: field, Conflict: &conflict}
		}
		if potential < 0 && potentialMatch(c, m) {
			potential = i
		}
	}

	if potential >= 0 {
		conflict := existing[potential]
		return Result{Kind: Potential, Field: FieldName, Conflict: &conflict}
	}
	return Result{Kind: Novel}
}

// Check classifies candidate and turns a strict match into a
// *DuplicateRecordError. Potential matches are returned without error.
func Check(candidate models.FamilyMember, existing []models.FamilyMember) (Result, error) {
	res := Classify(candidate, existing)
	if res.Blocks() {
		return res, &DuplicateRecordError{Field: res.Field, Conflict: *res.Conflict}
	}
	return res, nil
}
