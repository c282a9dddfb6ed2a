package ui

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"consolidador/adapters/excel"
	"consolidador/app"
	"consolidador/domain/table"
	"consolidador/internal"
)

// memStaging keeps the handler tests off a real database.
type memStaging struct{}

func (memStaging) Stage(ctx context.Context, masterColumns []string, tables []*table.Table) (*table.Consolidated, error) {
	c := &table.Consolidated{Columns: masterColumns}
	for _, t := range tables {
		positions := make([]int, len(masterColumns))
		for i, col := range masterColumns {
			positions[i] = -1
			for j, tc := range t.Columns {
				if tc == col {
					positions[i] = j
					break
				}
			}
		}
		for _, row := range t.Rows {
			out := make([]string, len(masterColumns))
			for i, pos := range positions {
				if pos >= 0 && pos < len(row) {
					out[i] = row[pos]
				}
			}
			c.Rows = append(c.Rows, out)
		}
	}
	return c, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	service := app.NewConsolidationService(excel.NewReader(), memStaging{}, nil, internal.NewLogger(internal.LogLevelError))
	webApp, err := NewApp(Config{
		Port:        "8080",
		UploadDir:   t.TempDir(),
		MaxFileSize: 10 * 1024 * 1024,
		MaxFiles:    5,
		SessionTTL:  time.Minute,
	}, service, internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)
	t.Cleanup(webApp.Close)
	return webApp
}

func TestHandleIndex(t *testing.T) {
	webApp := newTestApp(t)

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Consolidador de Planilhas")
}

func TestHandleHelp(t *testing.T) {
	webApp := newTestApp(t)

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ajuda", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rastreabilidade")
}

func TestHandleJobs_EmptyHistory(t *testing.T) {
	webApp := newTestApp(t)

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhuma consolidação registrada")
}

func TestHandleResults_UnknownID(t *testing.T) {
	webApp := newTestApp(t)

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results/desconhecido", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDownload_UnknownID(t *testing.T) {
	webApp := newTestApp(t)

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/desconhecido", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleConsolidate_NoFiles(t *testing.T) {
	webApp := newTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/consolidate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConsolidate_UnsupportedExtension(t *testing.T) {
	webApp := newTestApp(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "dados.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/consolidate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConsolidate_RedirectsToResults(t *testing.T) {
	webApp := newTestApp(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Nome", "Idade"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Alice", "25"}))
	var workbook bytes.Buffer
	require.NoError(t, f.Write(&workbook))
	f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "dados.xlsx")
	require.NoError(t, err)
	_, err = io.Copy(part, &workbook)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/consolidate", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "/results/")

	// The redirect target serves the stored result.
	rec = httptest.NewRecorder()
	webApp.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, location, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
