package models

// Cover templates for the printed booklet
const (
	CoverClassic = "Classic"
	CoverModern  = "Modern"
	CoverRoyal   = "Royal"
)

// CommitteeMember is one office bearer shown on the committee page
type CommitteeMember struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	NativeName        string `json:"nativeName,omitempty"`
	Role              string `json:"role"`
	NativeRole        string `json:"nativeRole,omitempty"`
	Gotra             string `json:"gotra,omitempty"`
	NativeGotra       string `json:"nativeGotra,omitempty"`
	NativeNativePlace string `json:"nativeNativePlace,omitempty"`
	PhotoURL          string `json:"photoUrl,omitempty"`
	Mobile            string `json:"mobile,omitempty"`
}

// Sponsor is shown on the sponsors page
type Sponsor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// DeceasedMember is remembered on the memoriam page
type DeceasedMember struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	NativeName        string `json:"nativeName,omitempty"`
	PassingDate       string `json:"passingDate,omitempty"`
	NativePassingDate string `json:"nativePassingDate,omitempty"`
	PhotoURL          string `json:"photoUrl,omitempty"`
	Tribute           string `json:"tribute,omitempty"`
	NativeTribute     string `json:"nativeTribute,omitempty"`
}

// SansthaSettings is the organization profile, replaced wholesale by admins
type SansthaSettings struct {
	Name                   string            `json:"name" validate:"required"`
	NativeName             string            `json:"nativeName,omitempty"`
	LogoURL                string            `json:"logoUrl,omitempty"`
	ThemeColor             string            `json:"themeColor,omitempty"`
	ContactEmail           string            `json:"contactEmail,omitempty" validate:"omitempty,email"`
	EstablishedYear        string            `json:"establishedYear,omitempty"`
	Address                string            `json:"address,omitempty"`
	NativeAddress          string            `json:"nativeAddress,omitempty"`
	RegistrationNumber     string            `json:"registrationNumber,omitempty"`
	Translations           map[string]string `json:"translations,omitempty"`
	CommitteeMembers       []CommitteeMember `json:"committeeMembers"`
	OtherMembers           []CommitteeMember `json:"otherMembers,omitempty"`
	Sponsors               []Sponsor         `json:"sponsors,omitempty"`
	DeceasedMembers        []DeceasedMember  `json:"deceasedMembers,omitempty"`
	Advertisements         []string          `json:"advertisements,omitempty"`
	PresidentName          string            `json:"presidentName,omitempty"`
	NativePresidentName    string            `json:"nativePresidentName,omitempty"`
	PresidentMessage       string            `json:"presidentMessage,omitempty"`
	NativePresidentMessage string            `json:"nativePresidentMessage,omitempty"`
	PresidentPhotoURL      string            `json:"presidentPhotoUrl,omitempty"`
	SamajHistory           string            `json:"samajHistory,omitempty"`
	NativeSamajHistory     string            `json:"nativeSamajHistory,omitempty"`
	CoverTemplate          string            `json:"coverTemplate,omitempty" validate:"omitempty,oneof=Classic Modern Royal"`
}

// Label looks up a translated label, falling back to the key itself
func (s SansthaSettings) Label(key string) string {
	if v, ok := s.Translations[key]; ok && v != "" {
		return v
	}
	return key
}
