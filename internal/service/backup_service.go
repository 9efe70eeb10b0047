package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete directory backup structure
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	State      models.AppState `json:"state"`
}

// ObjectStore keeps snapshot files
type ObjectStore interface {
	Upload(ctx context.Context, object string, data []byte) error
	Download(ctx context.Context, object string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// BackupService handles backup and restore of the directory
type BackupService struct {
	directory *DirectoryService
	objects   ObjectStore
	prefix    string
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewBackupService creates a new backup service. objects may be nil when
// snapshots are not configured.
func NewBackupService(directory *DirectoryService, objects ObjectStore, prefix string, logger *zap.SugaredLogger) *BackupService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &BackupService{directory: directory, objects: objects, prefix: prefix, logger: logger, now: time.Now}
}

// Export writes a complete backup of the directory to w
func (s *BackupService) Export(w io.Writer) error {
	backup := BackupData{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		State:      s.directory.Snapshot(),
	}
	backup.State.CurrentUser = nil

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Infow("Directory exported", "members", len(backup.State.Members))
	return nil
}

// ExportFile writes a backup to a file
func (s *BackupService) ExportFile(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.Export(file); err != nil {
		return err
	}
	return file.Close()
}

// Import restores the directory from a backup. A bare AppState blob, as
// saved by the application itself, is accepted too.
func (s *BackupService) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	state, err := DecodeBackup(data)
	if err != nil {
		return err
	}
	return s.directory.Restore(ctx, state)
}

// ImportFile restores the directory from a backup file
func (s *BackupService) ImportFile(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.Import(ctx, file)
}

// DecodeBackup reads either a BackupData document or a bare AppState
func DecodeBackup(data []byte) (models.AppState, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if _, ok := probe["state"]; ok {
		var backup BackupData
		if err := json.Unmarshal(data, &backup); err != nil {
			return models.AppState{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
		}
		return backup.State, nil
	}
	if _, ok := probe["members"]; ok {
		var state models.AppState
		if err := json.Unmarshal(data, &state); err != nil {
			return models.AppState{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
		}
		return state, nil
	}
	return models.AppState{}, fmt.Errorf("%w: no state or members found", ErrInvalidBackup)
}

// Snapshot uploads a backup to object storage and returns the object name
func (s *BackupService) Snapshot(ctx context.Context) (string, error) {
	if s.objects == nil {
		return "", ErrSnapshotsDisabled
	}

	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		return "", err
	}
	object := path.Join(s.prefix, fmt.Sprintf("samaj-%s.json", s.now().UTC().Format("20060102-150405")))
	if err := s.objects.Upload(ctx, object, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Infow("Snapshot uploaded", "object", object, "bytes", buf.Len())
	return object, nil
}

// Snapshots lists stored snapshots, oldest first
func (s *BackupService) Snapshots(ctx context.Context) ([]string, error) {
	if s.objects == nil {
		return nil, ErrSnapshotsDisabled
	}
	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}
	return s.objects.List(ctx, prefix)
}

// RestoreSnapshot restores the named snapshot, or the newest one when
// object is empty, and returns the object used
func (s *BackupService) RestoreSnapshot(ctx context.Context, object string) (string, error) {
	if s.objects == nil {
		return "", ErrSnapshotsDisabled
	}
	if object == "" {
		names, err := s.Snapshots(ctx)
		if err != nil {
			return "", err
		}
		if len(names) == 0 {
			return "", fmt.Errorf("%w: no snapshots stored", ErrInvalidBackup)
		}
		object = names[len(names)-1]
	}

	data, err := s.objects.Download(ctx, object)
	if err != nil {
		return "", fmt.Errorf("failed to download snapshot %s: %w", object, err)
	}
	if err := s.Import(ctx, bytes.NewReader(data)); err != nil {
		return "", err
	}
	s.logger.Infow("Snapshot restored", "object", object)
	return object, nil
}
