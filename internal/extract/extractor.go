package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Input limits sent to the model, in characters
const (
	maxTextChars = 5000
	maxDocxChars = 10000
)

// Extractor turns free text and documents into member records and
// translates profile fields
type Extractor struct {
	gen          Generator
	extractModel string
	fastModel    string
	logger       *zap.SugaredLogger
}

// NewExtractor creates an Extractor. extractModel handles documents;
// fastModel handles text and translation.
func NewExtractor(gen Generator, extractModel, fastModel string, logger *zap.SugaredLogger) *Extractor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Extractor{gen: gen, extractModel: extractModel, fastModel: fastModel, logger: logger}
}

const extractPrompt = `You read community directory registers and return family members as JSON.
Return an array. Each item describes one person with the fields:
fullName, nativeName, gender (Male or Female), dob (YYYY-MM-DD), maritalStatus
(Single, Married, Divorced or Widowed), bloodGroup, education, occupation, gotra,
nativePlace, mobile, email, relationToHead, isHeadOfFamily, currentAddress
{street, city, state, pincode, country} and familyGroupIndex.
People of the same household share one familyGroupIndex number and exactly one
of them is the head. Leave out fields you cannot find. Do not invent values.`

// FromText extracts member records from pasted text
func (e *Extractor) FromText(ctx context.Context, text string) ([]models.FamilyMember, error) {
	text = truncate(strings.TrimSpace(text), maxTextChars)
	if text == "" {
		return nil, nil
	}
	parts := []Part{{Text: extractPrompt}, {Text: "Register:\n" + text}}
	return e.members(ctx, e.fastModel, parts)
}

// FromDocument extracts member records from an uploaded file. Word
// documents are converted to text first; other types are sent as is.
func (e *Extractor) FromDocument(ctx context.Context, data []byte, mimeType string) ([]models.FamilyMember, error) {
	if mimeType == MIMEDocx {
		text, err := DocxText(data)
		if err != nil {
			return nil, err
		}
		text = truncate(text, maxDocxChars)
		parts := []Part{{Text: extractPrompt}, {Text: "Register:\n" + text}}
		return e.members(ctx, e.extractModel, parts)
	}
	parts := []Part{{Text: extractPrompt}, {MIMEType: mimeType, Data: data}}
	return e.members(ctx, e.extractModel, parts)
}

func (e *Extractor) members(ctx context.Context, model string, parts []Part) ([]models.FamilyMember, error) {
	reply, err := e.gen.Generate(ctx, model, parts, memberListSchema)
	if err != nil {
		return nil, err
	}
	data, err := Repair(reply)
	if err != nil {
		e.logger.Warnw("unrepairable AI reply", "model", model, "length", len(reply))
		return nil, err
	}
	members, err := Decode(data)
	if err != nil {
		return nil, err
	}
	e.logger.Debugw("extracted members", "model", model, "count", len(members))
	return members, nil
}

// NativeDetails is the translation of a profile's English fields. Fields
// the model could not translate are empty.
type NativeDetails struct {
	FullName       string `json:"fullName,omitempty"`
	NativePlace    string `json:"nativePlace,omitempty"`
	Occupation     string `json:"occupation,omitempty"`
	Education      string `json:"education,omitempty"`
	CurrentAddress string `json:"currentAddress,omitempty"`
	Gotra          string `json:"gotra,omitempty"`
}

// NativeDetails translates the English profile fields of m into lang
func (e *Extractor) NativeDetails(ctx context.Context, m models.FamilyMember, lang string) (NativeDetails, error) {
	source := NativeDetails{
		FullName:       m.FullName,
		NativePlace:    m.NativePlace,
		Occupation:     m.Occupation,
		Education:      m.Education,
		CurrentAddress: m.CurrentAddress.OneLine(),
		Gotra:          m.Gotra,
	}
	input, err := json.Marshal(source)
	if err != nil {
		return NativeDetails{}, fmt.Errorf("failed to encode fields: %w", err)
	}

	prompt := fmt.Sprintf("Translate the values of this JSON object into %s script. "+
		"Transliterate names and places, translate other words. Keep the same keys and omit keys you cannot translate.\n%s", lang, input)
	reply, err := e.gen.Generate(ctx, e.fastModel, []Part{{Text: prompt}}, nativeDetailsSchema)
	if err != nil {
		return NativeDetails{}, err
	}
	data, err := Repair(reply)
	if err != nil {
		return NativeDetails{}, err
	}
	var out NativeDetails
	if err := json.Unmarshal(data, &out); err != nil {
		return NativeDetails{}, fmt.Errorf("%w: %v", ErrUnrecoverableResponse, err)
	}
	return out, nil
}

// ApplyNativeDetails copies translated values into the native fields of
// m. Values missing from d leave the existing field alone.
func ApplyNativeDetails(m models.FamilyMember, d NativeDetails) models.FamilyMember {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&m.NativeName, d.FullName)
	set(&m.NativeNativePlace, d.NativePlace)
	set(&m.NativeOccupation, d.Occupation)
	set(&m.NativeEducation, d.Education)
	set(&m.NativeCurrentAddress, d.CurrentAddress)
	set(&m.NativeGotra, d.Gotra)
	return m
}

// Translate renders free text into lang. On any failure the original text
// comes back unchanged.
func (e *Extractor) Translate(ctx context.Context, text, lang string) string {
	if strings.TrimSpace(text) == "" || models.IsEnglish(lang) {
		return text
	}
	prompt := fmt.Sprintf("Translate into %s. Reply with a JSON object {\"text\": \"...\"}.\n%s", lang, text)
	reply, err := e.gen.Generate(ctx, e.fastModel, []Part{{Text: prompt}}, translationSchema)
	if err != nil {
		e.logger.Warnw("translation failed", "lang", lang, "error", err)
		return text
	}
	data, err := Repair(reply)
	if err != nil {
		return text
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &out); err != nil || strings.TrimSpace(out.Text) == "" {
		return text
	}
	return out.Text
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
