package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Extractor turns registers into member records
type Extractor interface {
	FromText(ctx context.Context, text string) ([]models.FamilyMember, error)
	FromDocument(ctx context.Context, data []byte, mimeType string) ([]models.FamilyMember, error)
}

// StagedImport is the review area shown before a bulk import is committed
type StagedImport struct {
	Members    []models.FamilyMember `json:"members"`
	Duplicates int                   `json:"duplicatesCount"`
}

// ImportService collects extracted records for review and commits them
// to the directory in one step
type ImportService struct {
	mu        sync.Mutex
	directory *DirectoryService
	extractor Extractor
	logger    *zap.SugaredLogger

	staged     []models.FamilyMember
	duplicates int
	batches    int
}

func NewImportService(directory *DirectoryService, extractor Extractor, logger *zap.SugaredLogger) *ImportService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ImportService{directory: directory, extractor: extractor, logger: logger}
}

// StageText extracts records from pasted text and adds the new ones to
// the staging area
func (s *ImportService) StageText(ctx context.Context, text string) (*StagedImport, error) {
	records, err := s.extractor.FromText(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.stage(records), nil
}

// StageDocument extracts records from an uploaded file
func (s *ImportService) StageDocument(ctx context.Context, data []byte, mimeType string) (*StagedImport, error) {
	records, err := s.extractor.FromDocument(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	return s.stage(records), nil
}

func (s *ImportService) stage(records []models.FamilyMember) *StagedImport {
	s.mu.Lock()
	defer s.mu.Unlock()

	records = extract.FillPlaceholderDOB(records)

	// Family groups are numbered per extraction; keep batches apart
	s.batches++
	for i := range records {
		if rest, ok := strings.CutPrefix(records[i].FamilyID, "group:"); ok {
			records[i].FamilyID = fmt.Sprintf("group:%d:%s", s.batches, rest)
		}
	}

	existing := append(s.directory.Members(&models.User{Role: models.RoleAdmin}), s.staged...)
	accepted, duplicates := dedup.FilterBatch(records, existing)
	s.staged = append(s.staged, accepted...)
	s.duplicates += duplicates

	s.logger.Infow("Records staged", "extracted", len(records), "accepted", len(accepted), "duplicates", duplicates)
	return s.snapshot()
}

// Staged returns the staging area
func (s *ImportService) Staged() *StagedImport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *ImportService) snapshot() *StagedImport {
	members := models.CloneMembers(s.staged)
	if members == nil {
		members = []models.FamilyMember{}
	}
	return &StagedImport{Members: members, Duplicates: s.duplicates}
}

// Discard empties the staging area
func (s *ImportService) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
	s.duplicates = 0
}

// Commit imports every staged record that still does not duplicate the
// directory, then clears the staging area. A failed write keeps it.
func (s *ImportService) Commit(ctx context.Context) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) == 0 {
		return nil, ErrNothingStaged
	}
	res, err := s.directory.ImportMembers(ctx, s.staged)
	if err != nil {
		return nil, err
	}
	res.Duplicates += s.duplicates
	s.staged = nil
	s.duplicates = 0
	return res, nil
}
