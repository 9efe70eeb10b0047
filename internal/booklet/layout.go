package booklet

import (
	"time"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Mode selects between the full booklet and a single family print
type Mode string

const (
	ModeBooklet Mode = "booklet"
	ModeSingle  Mode = "single"
)

// Default page capacities
const (
	DefaultBiodataPerPage  = 2
	DefaultSinglePerPage   = 1
	DefaultContactsPerPage = 15
)

// Section names a part of the booklet
type Section string

const (
	SectionCover     Section = "cover"
	SectionIntro     Section = "intro"
	SectionMemoriam  Section = "memoriam"
	SectionCommittee Section = "committee"
	SectionSponsors  Section = "sponsors"
	SectionIndex     Section = "index"
	SectionBiodata   Section = "biodataStart"
	SectionContacts  Section = "contactsStart"
	SectionBackCover Section = "backCover"
)

// Options configures a layout pass
type Options struct {
	Mode            Mode
	BiodataPerPage  int
	SinglePerPage   int
	ContactsPerPage int
	Language        string
	// Today anchors age calculations; zero means time.Now
	Today time.Time
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeBooklet
	}
	if o.BiodataPerPage <= 0 {
		o.BiodataPerPage = DefaultBiodataPerPage
	}
	if o.SinglePerPage <= 0 {
		o.SinglePerPage = DefaultSinglePerPage
	}
	if o.ContactsPerPage <= 0 {
		o.ContactsPerPage = DefaultContactsPerPage
	}
	if o.Today.IsZero() {
		o.Today = time.Now()
	}
	return o
}

func (o Options) headsPerPage() int {
	if o.Mode == ModeSingle {
		return o.SinglePerPage
	}
	return o.BiodataPerPage
}

// Block is one family printed on a biodata page
type Block struct {
	Head       models.FamilyMember   `json:"head"`
	Dependents []models.FamilyMember `json:"dependents"`
	Age        int                   `json:"age,omitempty"`
	HasAge     bool                  `json:"hasAge"`
}

// BiodataPage holds the families printed on one page, top to bottom
type BiodataPage struct {
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}

// ContactRow is one line of the contact list
type ContactRow struct {
	Index int                 `json:"index"`
	Head  models.FamilyMember `json:"head"`
}

// ContactPage holds up to ContactsPerPage rows
type ContactPage struct {
	Number int          `json:"number"`
	Rows   []ContactRow `json:"rows"`
}

// IndexEntry is one line of the table of contents
type IndexEntry struct {
	Section Section `json:"section"`
	Page    int     `json:"page"`
}

// Plan is the complete page assignment for one print
type Plan struct {
	Mode       Mode                  `json:"mode"`
	Language   string                `json:"language"`
	Sections   map[Section]int       `json:"sections"`
	Index      []IndexEntry          `json:"index"`
	Biodata    []BiodataPage         `json:"biodata"`
	Contacts   []ContactPage         `json:"contacts"`
	TotalPages int                   `json:"totalPages"`
	Heads      []models.FamilyMember `json:"-"`
}

// PageOf returns the first page of a section, if the section is printed
func (p Plan) PageOf(s Section) (int, bool) {
	n, ok := p.Sections[s]
	return n, ok
}

// Has reports whether the section is printed
func (p Plan) Has(s Section) bool {
	_, ok := p.Sections[s]
	return ok
}

// indexed lists the sections named in the table of contents, in order
var indexed = []Section{
	SectionIntro,
	SectionMemoriam,
	SectionCommittee,
	SectionSponsors,
	SectionBiodata,
	SectionContacts,
}

// Layout assigns page numbers to every section and paginates the heads.
// heads must already be selected and ordered; members supplies each
// head's dependents. It renders nothing, so the same inputs always give
// the same plan.
func Layout(heads, members []models.FamilyMember, settings models.SansthaSettings, opts Options) Plan {
	opts = opts.withDefaults()
	plan := Plan{
		Mode:     opts.Mode,
		Language: opts.Language,
		Sections: make(map[Section]int),
		Heads:    heads,
	}

	page := 1
	next := func(s Section) {
		plan.Sections[s] = page
		page++
	}

	if opts.Mode == ModeBooklet {
		next(SectionCover)
		next(SectionIntro)
		if len(settings.DeceasedMembers) > 0 {
			next(SectionMemoriam)
		}
		next(SectionCommittee)
		if len(settings.Sponsors) > 0 {
			next(SectionSponsors)
		}
		next(SectionIndex)
	}

	perPage := opts.headsPerPage()
	if len(heads) > 0 {
		plan.Sections[SectionBiodata] = page
	}
	for start := 0; start < len(heads); start += perPage {
		end := min(start+perPage, len(heads))
		bp := BiodataPage{Number: page}
		for _, h := range heads[start:end] {
			age, ok := h.Age(opts.Today)
			bp.Blocks = append(bp.Blocks, Block{
				Head:       h,
				Dependents: Dependents(h, members),
				Age:        age,
				HasAge:     ok,
			})
		}
		plan.Biodata = append(plan.Biodata, bp)
		page++
	}

	if opts.Mode == ModeBooklet {
		if len(heads) > 0 {
			plan.Sections[SectionContacts] = page
		}
		for start := 0; start < len(heads); start += opts.ContactsPerPage {
			end := min(start+opts.ContactsPerPage, len(heads))
			cp := ContactPage{Number: page}
			for i, h := range heads[start:end] {
				cp.Rows = append(cp.Rows, ContactRow{Index: start + i + 1, Head: h})
			}
			plan.Contacts = append(plan.Contacts, cp)
			page++
		}
		next(SectionBackCover)

		for _, s := range indexed {
			if n, ok := plan.Sections[s]; ok {
				plan.Index = append(plan.Index, IndexEntry{Section: s, Page: n})
			}
		}
	}

	plan.TotalPages = page - 1
	return plan
}

// BuildBooklet selects, orders and lays out every printable family
func BuildBooklet(members []models.FamilyMember, settings models.SansthaSettings, opts Options) Plan {
	opts.Mode = ModeBooklet
	return Layout(SelectHeads(members, opts.Language), members, settings, opts)
}

// BuildSingle lays out one family on its own
func BuildSingle(head models.FamilyMember, members []models.FamilyMember, settings models.SansthaSettings, opts Options) Plan {
	opts.Mode = ModeSingle
	return Layout([]models.FamilyMember{head}, members, settings, opts)
}
