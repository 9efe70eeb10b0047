package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

type fakeExtractor struct {
	batches [][]models.FamilyMember
	err     error
	calls   int
	mime    string
}

func (f *fakeExtractor) next() ([]models.FamilyMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	batch := f.batches[f.calls]
	f.calls++
	return models.CloneMembers(batch), nil
}

func (f *fakeExtractor) FromText(ctx context.Context, text string) ([]models.FamilyMember, error) {
	return f.next()
}

func (f *fakeExtractor) FromDocument(ctx context.Context, data []byte, mimeType string) ([]models.FamilyMember, error) {
	f.mime = mimeType
	return f.next()
}

func extracted(name, mobile, familyID string) models.FamilyMember {
	return models.FamilyMember{
		FullName: name,
		Mobile:   mobile,
		FamilyID: familyID,
		Status:   models.StatusApproved,
	}
}

func TestImportFiveRecordsTwoDuplicates(t *testing.T) {
	svc := newTestDirectory(t, person("m1", "f1", "Ramesh Shah", "1970-01-01", "9825012345", true))
	extractor := &fakeExtractor{batches: [][]models.FamilyMember{{
		extracted("Anil Mehta", "9000000001", "group:0"),
		extracted("Someone", "9825012345", ""),
		extracted("Anil Mehta Jr", "9000000001", ""),
		extracted("Sunita Mehta", "", "group:0"),
		extracted("Kiran Patel", "", ""),
	}}}
	imports := NewImportService(svc, extractor, nil)
	ctx := context.Background()

	staged, err := imports.StageText(ctx, "register text")
	require.NoError(t, err)
	assert.Len(t, staged.Members, 3)
	assert.Equal(t, 2, staged.Duplicates)
	assert.Len(t, svc.Snapshot().Members, 1, "staging does not touch the directory")

	res, err := imports.Commit(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Imported, 3)
	assert.Equal(t, 2, res.Duplicates)
	assert.Len(t, svc.Snapshot().Members, 4)

	assert.Empty(t, imports.Staged().Members)
	_, err = imports.Commit(ctx)
	assert.ErrorIs(t, err, ErrNothingStaged)
}

func TestImportStagingAccumulates(t *testing.T) {
	svc := newTestDirectory(t)
	extractor := &fakeExtractor{batches: [][]models.FamilyMember{
		{
			extracted("Anil Mehta", "9000000001", "group:0"),
			extracted("Sunita Mehta", "", "group:0"),
		},
		{
			extracted("Bharat Patel", "", "group:0"),
			extracted("Anil M", "9000000001", ""),
		},
	}}
	imports := NewImportService(svc, extractor, nil)
	ctx := context.Background()

	_, err := imports.StageText(ctx, "page one")
	require.NoError(t, err)
	staged, err := imports.StageDocument(ctx, []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", extractor.mime)
	assert.Len(t, staged.Members, 3)
	assert.Equal(t, 1, staged.Duplicates)

	res, err := imports.Commit(ctx)
	require.NoError(t, err)
	require.Len(t, res.Imported, 3)
	anil, sunita, bharat := res.Imported[0], res.Imported[1], res.Imported[2]
	assert.Equal(t, anil.FamilyID, sunita.FamilyID)
	assert.NotEqual(t, anil.FamilyID, bharat.FamilyID, "group numbers are per extraction")
	assert.Equal(t, extract.PlaceholderDOB, bharat.DOB)
}

func TestImportExtractionFailureKeepsStaging(t *testing.T) {
	svc := newTestDirectory(t)
	extractor := &fakeExtractor{batches: [][]models.FamilyMember{{extracted("Anil Mehta", "", "")}}}
	imports := NewImportService(svc, extractor, nil)
	ctx := context.Background()

	_, err := imports.StageText(ctx, "page one")
	require.NoError(t, err)

	extractor.err = &extract.ExternalServiceError{Op: "generate", Err: errors.New("503 Service Unavailable")}
	_, err = imports.StageText(ctx, "page two")
	var ext *extract.ExternalServiceError
	assert.True(t, errors.As(err, &ext))
	assert.Len(t, imports.Staged().Members, 1)
}

func TestImportDiscard(t *testing.T) {
	svc := newTestDirectory(t)
	extractor := &fakeExtractor{batches: [][]models.FamilyMember{{extracted("Anil Mehta", "", "")}}}
	imports := NewImportService(svc, extractor, nil)

	_, err := imports.StageText(context.Background(), "text")
	require.NoError(t, err)
	imports.Discard()

	staged := imports.Staged()
	assert.NotNil(t, staged.Members)
	assert.Empty(t, staged.Members)
	assert.Zero(t, staged.Duplicates)
	_, err = imports.Commit(context.Background())
	assert.ErrorIs(t, err, ErrNothingStaged)
}

func TestImportSameNameWithoutDOB(t *testing.T) {
	svc := newTestDirectory(t)
	extractor := &fakeExtractor{batches: [][]models.FamilyMember{{
		extracted("Ramesh Patel", "", ""),
		extracted("Ramesh Patel", "", ""),
	}}}
	imports := NewImportService(svc, extractor, nil)
	ctx := context.Background()

	staged, err := imports.StageText(ctx, "register")
	require.NoError(t, err)
	assert.Len(t, staged.Members, 1)
	assert.Equal(t, 1, staged.Duplicates)

	res, err := imports.Commit(ctx)
	require.NoError(t, err)
	require.Len(t, res.Imported, 1)
	assert.Equal(t, 1, res.Duplicates)

	edited := res.Imported[0]
	edited.Occupation = "Farmer"
	_, err = svc.Submit(ctx, adminUser, SubmitRequest{Member: edited})
	require.NoError(t, err)
	m, err := svc.Member(adminUser, edited.ID)
	require.NoError(t, err)
	assert.Equal(t, "Farmer", m.Occupation)
}
