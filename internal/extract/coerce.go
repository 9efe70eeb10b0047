package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Defaults applied to imported records
const (
	PlaceholderDOB = "1990-01-01"
	DefaultName    = "Unknown Member"
	DefaultCountry = "India"
	groupKeyPrefix = "group:"
	relationSelf   = "Self"
	relationMember = "Member"
)

// dateLayouts are the dob spellings accepted from extracted text
var dateLayouts = []string{
	models.DateLayout,
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"2006/01/02",
	"02.01.2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Decode parses repaired JSON into coerced member records. It accepts
// an array of records or an object carrying them under "members".
func Decode(data []byte) ([]models.FamilyMember, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecoverableResponse, err)
	}

	var items []any
	switch v := payload.(type) {
	case []any:
		items = v
	case map[string]any:
		list, ok := v["members"].([]any)
		if !ok {
			// a single record
			list = []any{v}
		}
		items = list
	default:
		return nil, fmt.Errorf("%w: expected a list of members", ErrUnrecoverableResponse)
	}

	out := make([]models.FamilyMember, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Coerce(raw))
	}
	return out, nil
}

// Coerce converts one untyped record into a FamilyMember with import
// defaults, including the placeholder dob, so duplicate checks see the
// record as it will be stored. The extraction's family group travels in
// FamilyID until Finalize assigns real family ids.
func Coerce(raw map[string]any) models.FamilyMember {
	str := func(key string) string {
		return strings.TrimSpace(cast.ToString(raw[key]))
	}

	isHead := cast.ToBool(raw["isHeadOfFamily"])
	m := models.FamilyMember{
		FullName:             str("fullName"),
		NativeName:           str("nativeName"),
		Gender:               gender(str("gender")),
		DOB:                  normalizeDate(str("dob")),
		MaritalStatus:        maritalStatus(str("maritalStatus")),
		BloodGroup:           strings.ToUpper(str("bloodGroup")),
		Education:            str("education"),
		NativeEducation:      str("nativeEducation"),
		Occupation:           str("occupation"),
		NativeOccupation:     str("nativeOccupation"),
		Income:               str("income"),
		Gotra:                str("gotra"),
		NativeGotra:          str("nativeGotra"),
		NativePlace:          str("nativePlace"),
		NativeNativePlace:    str("nativeNativePlace"),
		CurrentAddress:       address(raw["currentAddress"]),
		NativeCurrentAddress: str("nativeCurrentAddress"),
		Mobile:               str("mobile"),
		Email:                str("email"),
		IsHeadOfFamily:       isHead,
		RelationToHead:       str("relationToHead"),
		SpouseName:           str("spouseName"),
		Bio:                  str("bio"),
		Status:               models.StatusApproved,
	}
	if m.FullName == "" {
		m.FullName = DefaultName
	}
	if m.DOB == "" {
		m.DOB = PlaceholderDOB
	}
	if m.RelationToHead == "" {
		m.RelationToHead = relationMember
		if isHead {
			m.RelationToHead = relationSelf
		}
	}
	if g := str("familyGroupIndex"); g != "" {
		m.FamilyID = groupKeyPrefix + g
	}
	return m
}

// FillPlaceholderDOB returns a copy of members with the placeholder dob
// set where none is recorded
func FillPlaceholderDOB(members []models.FamilyMember) []models.FamilyMember {
	out := models.CloneMembers(members)
	for i := range out {
		if out[i].DOB == "" {
			out[i].DOB = PlaceholderDOB
		}
	}
	return out
}

// Finalize gives each accepted record an id, a placeholder dob when none
// was extracted, and a family id shared by records of the same extracted
// group. Records without a group get a family of their own.
func Finalize(members []models.FamilyMember, newID func() string) []models.FamilyMember {
	families := make(map[string]string)
	out := make([]models.FamilyMember, len(members))
	for i, m := range members {
		m.ID = newID()
		if m.DOB == "" {
			m.DOB = PlaceholderDOB
		}
		if strings.HasPrefix(m.FamilyID, groupKeyPrefix) {
			id, ok := families[m.FamilyID]
			if !ok {
				id = newID()
				families[m.FamilyID] = id
			}
			m.FamilyID = id
		} else if m.FamilyID == "" {
			m.FamilyID = newID()
		}
		out[i] = m
	}
	return out
}

func gender(s string) string {
	if strings.EqualFold(s, models.GenderFemale) {
		return models.GenderFemale
	}
	return models.GenderMale
}

func maritalStatus(s string) string {
	for _, v := range models.MaritalStatuses {
		if strings.EqualFold(s, v) {
			return v
		}
	}
	return models.MaritalSingle
}

func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	if t, ok := models.ParseDate(s); ok {
		return t.Format(models.DateLayout)
	}
	return ""
}

func address(v any) models.Address {
	a := models.Address{Country: DefaultCountry}
	switch addr := v.(type) {
	case map[string]any:
		a.Street = strings.TrimSpace(cast.ToString(addr["street"]))
		a.City = strings.TrimSpace(cast.ToString(addr["city"]))
		a.State = strings.TrimSpace(cast.ToString(addr["state"]))
		a.Pincode = strings.TrimSpace(cast.ToString(addr["pincode"]))
		if c := strings.TrimSpace(cast.ToString(addr["country"])); c != "" {
			a.Country = c
		}
	case string:
		a.Street = strings.TrimSpace(addr)
	}
	return a
}
