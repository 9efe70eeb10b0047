package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/household"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/seed"
	"github.com/umehtaji1981-tech/samaj-setu/internal/validation"
)

// Notifier is told about member lifecycle events. Implementations log
// their own failures; nothing they do can fail a command.
type Notifier interface {
	MemberSubmitted(ctx context.Context, settings models.SansthaSettings, m models.FamilyMember)
	MemberApproved(ctx context.Context, settings models.SansthaSettings, m models.FamilyMember)
}

// DirectoryService owns the AppState and applies every change to it.
// Commands run one at a time; each validates, checks for duplicates,
// syncs households and persists before the new state becomes visible.
type DirectoryService struct {
	mu       sync.RWMutex
	state    models.AppState
	store    StateStore
	key      string
	notifier Notifier
	logger   *zap.SugaredLogger

	biodataPerPage  int
	contactsPerPage int

	newID func() string
	now   func() time.Time
}

// NewDirectoryService creates a service persisting under key in store.
// Call Load before use.
func NewDirectoryService(store StateStore, key string, logger *zap.SugaredLogger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DirectoryService{
		store:  store,
		key:    key,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
}

// SetNotifier installs the notifier for submissions and approvals
func (s *DirectoryService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetBookletCapacity overrides the default heads and contacts per page
func (s *DirectoryService) SetBookletCapacity(biodataPerPage, contactsPerPage int) {
	s.biodataPerPage = biodataPerPage
	s.contactsPerPage = contactsPerPage
}

// Load reads the saved state. A missing or unreadable blob is replaced by
// the seed dataset, which is saved straight away.
func (s *DirectoryService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.store.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if blob != nil {
		var state models.AppState
		err := json.Unmarshal(blob, &state)
		if err == nil {
			if state.Members == nil {
				state.Members = []models.FamilyMember{}
			}
			s.state = state
			s.logger.Infow("State loaded", "members", len(state.Members))
			return nil
		}
		s.logger.Warnw("Saved state is unreadable, starting from seed", "error", err)
	}

	state, err := seed.Load()
	if err != nil {
		return err
	}
	if err := s.commit(ctx, state); err != nil {
		return err
	}
	s.logger.Infow("State seeded", "members", len(state.Members))
	return nil
}

// commit persists next and makes it current. Callers hold the write lock.
// On failure the current state is left as it was.
func (s *DirectoryService) commit(ctx context.Context, next models.AppState) error {
	blob, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.store.Save(ctx, s.key, blob); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	s.state = next
	return nil
}

// CheckDuplicate classifies a candidate against the directory for live
// form feedback. A conflict actor may not read is reduced to its id and
// name.
func (s *DirectoryService) CheckDuplicate(actor *models.User, candidate models.FamilyMember) dedup.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := dedup.Classify(candidate, s.state.Members)
	if res.Conflict != nil {
		conflict := s.conflictFor(actor, *res.Conflict)
		res.Conflict = &conflict
	}
	return res
}

// conflictFor reduces a conflicting record actor may not read to its id
// and name
func (s *DirectoryService) conflictFor(actor *models.User, m models.FamilyMember) models.FamilyMember {
	if s.visible(actor, m) {
		return m
	}
	return models.FamilyMember{ID: m.ID, FullName: m.FullName}
}

// SubmitRequest is a member form submission. Household lists dependents
// saved together with a head.
type SubmitRequest struct {
	Member    models.FamilyMember   `json:"member"`
	Household []models.FamilyMember `json:"household,omitempty"`
	Draft     bool                  `json:"draft,omitempty"`
}

// SubmitResult carries the saved records and any potential duplicates
// found along the way
type SubmitResult struct {
	Member    models.FamilyMember   `json:"member"`
	Household []models.FamilyMember `json:"household,omitempty"`
	Warnings  []dedup.Result        `json:"warnings,omitempty"`
}

// Submit validates, deduplicates and saves a member and optionally the
// rest of their household. Either every record is saved or none is.
func (s *DirectoryService) Submit(ctx context.Context, actor *models.User, req SubmitRequest) (*SubmitResult, error) {
	res, created, err := s.submit(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	if created && res.Member.Status == models.StatusPending && s.notifier != nil {
		s.notifier.MemberSubmitted(ctx, s.Settings(), res.Member)
	}
	return res, nil
}

func (s *DirectoryService) submit(ctx context.Context, actor *models.User, req SubmitRequest) (*SubmitResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := trimMember(req.Member)
	prior, exists := s.find(m.ID)
	if exists && !s.canEdit(actor, prior) {
		return nil, false, ErrForbidden
	}

	if !exists {
		if m.ID == "" {
			m.ID = s.newID()
		}
		if m.FamilyID == "" {
			m.FamilyID = s.newID()
			m.IsHeadOfFamily = true
		}
	}
	m.Status = s.statusFor(actor, prior, exists, req.Draft)
	if m.IsHeadOfFamily && m.RelationToHead == "" {
		m.RelationToHead = "Self"
	}

	// A dependent joining an existing family takes the household fields
	// of its head
	if !m.IsHeadOfFamily {
		if g, ok := household.Find(s.state.Members, m.FamilyID); ok {
			if head := g.Head(); head.ID != m.ID && head.IsHeadOfFamily {
				m = household.Sync(head, []models.FamilyMember{m})[0]
			}
		}
	}

	if err := validateMember(m, ""); err != nil {
		return nil, false, err
	}

	var deps []models.FamilyMember
	if len(req.Household) > 0 {
		if !m.IsHeadOfFamily {
			return nil, false, fmt.Errorf("%w: %w", ErrHouseholdRequiresHead,
				validation.ValidationError{Field: "household", Message: ErrHouseholdRequiresHead.Error()})
		}
		for i, d := range req.Household {
			d = trimMember(d)
			dPrior, dExists := s.find(d.ID)
			if dExists && !s.canEdit(actor, dPrior) {
				return nil, false, ErrForbidden
			}
			if !dExists && d.ID == "" {
				d.ID = s.newID()
			}
			d.Status = s.statusFor(actor, dPrior, dExists, req.Draft)
			d = household.Sync(m, []models.FamilyMember{d})[0]
			if err := validateMember(d, fmt.Sprintf("household[%d].", i)); err != nil {
				return nil, false, err
			}
			deps = append(deps, d)
		}
	}

	records := append([]models.FamilyMember{m}, deps...)
	warnings, err := s.checkDuplicates(actor, records)
	if err != nil {
		return nil, false, err
	}

	next := s.state.Clone()
	next.Members = household.Upsert(next.Members, records...)
	if err := s.commit(ctx, next); err != nil {
		return nil, false, err
	}

	s.logger.Infow("Member saved", "id", m.ID, "family", m.FamilyID, "status", m.Status, "household", len(deps))
	return &SubmitResult{Member: m, Household: deps, Warnings: warnings}, !exists, nil
}

// checkDuplicates runs the strict check for each record against the
// directory and the records before it in the same submission. Conflicts
// are reported as actor may see them.
func (s *DirectoryService) checkDuplicates(actor *models.User, records []models.FamilyMember) ([]dedup.Result, error) {
	submitted := make(map[string]bool, len(records))
	for _, r := range records {
		submitted[r.ID] = true
	}
	pool := make([]models.FamilyMember, 0, len(s.state.Members)+len(records))
	for _, m := range s.state.Members {
		if !submitted[m.ID] {
			pool = append(pool, m)
		}
	}

	var warnings []dedup.Result
	for _, r := range records {
		res, err := dedup.Check(r, pool)
		var dup *dedup.DuplicateRecordError
		if errors.As(err, &dup) {
			dup.Conflict = s.conflictFor(actor, dup.Conflict)
		}
		if err != nil {
			return nil, err
		}
		if res.Kind == dedup.Potential {
			conflict := s.conflictFor(actor, *res.Conflict)
			res.Conflict = &conflict
			warnings = append(warnings, res)
		}
		pool = append(pool, r)
	}
	return warnings, nil
}

// statusFor decides the stored status of a submitted record. A saved
// record keeps its status; only new records and drafts can be saved as
// a draft.
func (s *DirectoryService) statusFor(actor *models.User, prior models.FamilyMember, exists, draft bool) models.MemberStatus {
	switch {
	case exists && prior.Status != models.StatusDraft:
		return prior.Status
	case draft:
		return models.StatusDraft
	case actor.IsAdmin():
		return models.StatusApproved
	default:
		return models.StatusPending
	}
}

// canEdit reports whether actor may change an existing record: admins
// always, users for records in a family they belong to
func (s *DirectoryService) canEdit(actor *models.User, m models.FamilyMember) bool {
	if actor.IsAdmin() {
		return true
	}
	return s.ownsFamily(actor, household.FamilyKey(m))
}

// ownsFamily reports whether a member of the family, keyed by
// household.FamilyKey, has the actor's mobile number
func (s *DirectoryService) ownsFamily(actor *models.User, familyKey string) bool {
	if actor == nil || familyKey == "" {
		return false
	}
	mobile := dedup.NormalizeMobile(actor.Mobile)
	if mobile == "" {
		return false
	}
	for _, m := range s.state.Members {
		if household.FamilyKey(m) == familyKey && dedup.NormalizeMobile(m.Mobile) == mobile {
			return true
		}
	}
	return false
}

func (s *DirectoryService) find(id string) (models.FamilyMember, bool) {
	if id == "" {
		return models.FamilyMember{}, false
	}
	for _, m := range s.state.Members {
		if m.ID == id {
			return m, true
		}
	}
	return models.FamilyMember{}, false
}

func validateMember(m models.FamilyMember, prefix string) error {
	var errs validation.Errors
	if err := validation.Struct(m); err != nil {
		list, ok := validation.AsErrors(err)
		if !ok {
			return err
		}
		errs = append(errs, list...)
	}
	if m.Mobile != "" {
		if err := validation.ValidateMobile(m.Mobile); err != nil {
			list, _ := validation.AsErrors(err)
			errs = append(errs, list...)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	for i := range errs {
		errs[i].Field = prefix + errs[i].Field
	}
	return errs
}

func trimMember(m models.FamilyMember) models.FamilyMember {
	m.ID = strings.TrimSpace(m.ID)
	m.FullName = strings.TrimSpace(m.FullName)
	m.NativeName = strings.TrimSpace(m.NativeName)
	m.DOB = strings.TrimSpace(m.DOB)
	m.Mobile = strings.TrimSpace(m.Mobile)
	m.Email = strings.TrimSpace(m.Email)
	m.FamilyID = strings.TrimSpace(m.FamilyID)
	return m
}

// Approve marks a member Approved
func (s *DirectoryService) Approve(ctx context.Context, actor *models.User, id string) (models.FamilyMember, error) {
	m, err := s.setStatus(ctx, actor, id, models.StatusApproved)
	if err != nil {
		return m, err
	}
	if s.notifier != nil {
		s.notifier.MemberApproved(ctx, s.Settings(), m)
	}
	return m, nil
}

// Reject marks a member Rejected
func (s *DirectoryService) Reject(ctx context.Context, actor *models.User, id string) (models.FamilyMember, error) {
	return s.setStatus(ctx, actor, id, models.StatusRejected)
}

func (s *DirectoryService) setStatus(ctx context.Context, actor *models.User, id string, status models.MemberStatus) (models.FamilyMember, error) {
	if !actor.IsAdmin() {
		return models.FamilyMember{}, ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.find(id)
	if !ok {
		return models.FamilyMember{}, ErrMemberNotFound
	}
	m.Status = status

	next := s.state.Clone()
	next.Members = household.Upsert(next.Members, m)
	if err := s.commit(ctx, next); err != nil {
		return models.FamilyMember{}, err
	}
	s.logger.Infow("Member status changed", "id", id, "status", status, "by", actor.ID)
	return m, nil
}

// Delete removes a member
func (s *DirectoryService) Delete(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	members, ok := household.Remove(next.Members, id)
	if !ok {
		return ErrMemberNotFound
	}
	next.Members = members
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Infow("Member deleted", "id", id, "by", actor.ID)
	return nil
}

// UpdateSettings replaces the organization settings
func (s *DirectoryService) UpdateSettings(ctx context.Context, actor *models.User, settings models.SansthaSettings) (models.SansthaSettings, error) {
	if !actor.IsAdmin() {
		return models.SansthaSettings{}, ErrForbidden
	}
	settings.Name = strings.TrimSpace(settings.Name)
	if err := validation.Struct(settings); err != nil {
		return models.SansthaSettings{}, err
	}
	if settings.CommitteeMembers == nil {
		settings.CommitteeMembers = []models.CommitteeMember{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Settings = settings
	if err := s.commit(ctx, next); err != nil {
		return models.SansthaSettings{}, err
	}
	return settings, nil
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Imported   []models.FamilyMember `json:"imported"`
	Duplicates int                   `json:"duplicatesCount"`
}

// ImportMembers adds extracted records in one write. Records without a
// dob take the placeholder first, then records that strictly duplicate
// the directory, or an earlier record of the batch, are dropped and
// counted. Survivors get ids and family ids.
func (s *DirectoryService) ImportMembers(ctx context.Context, candidates []models.FamilyMember) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted, duplicates := dedup.FilterBatch(extract.FillPlaceholderDOB(candidates), s.state.Members)
	records := extract.Finalize(accepted, s.newID)

	next := s.state.Clone()
	next.Members = append(next.Members, records...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Infow("Members imported", "imported", len(records), "duplicates", duplicates)
	if records == nil {
		records = []models.FamilyMember{}
	}
	return &ImportResult{Imported: records, Duplicates: duplicates}, nil
}

// Restore replaces the whole directory with a backup
func (s *DirectoryService) Restore(ctx context.Context, state models.AppState) error {
	if state.Members == nil {
		state.Members = []models.FamilyMember{}
	}
	if err := validation.Struct(state.Settings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := state.Clone()
	next.CurrentUser = s.state.CurrentUser
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.logger.Infow("State restored", "members", len(next.Members))
	return nil
}

// Snapshot returns a copy of the current state
func (s *DirectoryService) Snapshot() models.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Settings returns the organization settings
func (s *DirectoryService) Settings() models.SansthaSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone().Settings
}
