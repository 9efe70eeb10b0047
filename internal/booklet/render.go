package booklet

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var printTemplate = template.Must(template.New("booklet.tmpl").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl"))

var funcMap = template.FuncMap{
	"section": func(s string) Section {
		return Section(s)
	},
	"address": func(m models.FamilyMember, lang string) string {
		if !models.IsEnglish(lang) && m.NativeCurrentAddress != "" {
			return m.NativeCurrentAddress
		}
		return m.CurrentAddress.OneLine()
	},
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
	"pick": func(lang, english, native string) string {
		if !models.IsEnglish(lang) && native != "" {
			return native
		}
		return english
	},
	"sectionTitle": func(s Section) string {
		if t, ok := sectionTitles[s]; ok {
			return t
		}
		return string(s)
	},
}

var sectionTitles = map[Section]string{
	SectionIntro:     "President's Message & History",
	SectionMemoriam:  "Shradhanjali",
	SectionCommittee: "Managing Committee",
	SectionSponsors:  "Sponsors",
	SectionBiodata:   "Family Directory",
	SectionContacts:  "Contact List",
}

type renderData struct {
	Plan     Plan
	Settings models.SansthaSettings
	Lang     string
}

// Render writes a printable HTML document for the plan. Every page
// carries the number assigned by Layout.
func Render(w io.Writer, plan Plan, settings models.SansthaSettings) error {
	data := renderData{Plan: plan, Settings: settings, Lang: plan.Language}
	if err := printTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render booklet: %w", err)
	}
	return nil
}
