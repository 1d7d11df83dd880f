package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise-api/internal/models"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/storage"
)

type mockExportSource struct {
	rows []models.QuestionWithOwner
}

func (m *mockExportSource) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionWithOwner, int, error) {
	if filter.Page > 1 {
		return nil, len(m.rows), nil
	}
	return m.rows, len(m.rows), nil
}

func newExportFixture(t *testing.T, ttl time.Duration) (*ExportService, *mockExportSource) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", ttl)

	source := &mockExportSource{rows: []models.QuestionWithOwner{
		{
			Question: models.Question{ID: "q1", Question: "Capital of France?", Answer: "Paris", Status: models.QuestionStatusActive},
			Username: "alice",
		},
	}}
	return NewExportService(source, files, signer, ExportConfig{APIPrefix: "/api/v1"}, nil), source
}

func TestExportGenerateCSV(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	result, err := svc.Generate(context.Background(), models.ExportQuestionsRequest{Format: models.ExportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/admin/exports/"))

	relPath, err := svc.ParseToken(result.Token)
	require.NoError(t, err)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	defer file.Close()

	info, err := file.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportGeneratePDF(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	result, err := svc.Generate(context.Background(), models.ExportQuestionsRequest{Format: models.ExportFormatPDF})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	_, err := svc.Generate(context.Background(), models.ExportQuestionsRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportTamperedTokenRejected(t *testing.T) {
	svc, _ := newExportFixture(t, time.Hour)

	result, err := svc.Generate(context.Background(), models.ExportQuestionsRequest{Format: models.ExportFormatCSV})
	require.NoError(t, err)

	tampered := result.Token[:len(result.Token)-2] + "zz"
	_, err = svc.ParseToken(tampered)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.ParseToken("garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
