package ui

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"consolidador/adapters/excel"
	"consolidador/domain/core"
	"consolidador/ports"
)

// previewRows caps how many consolidated rows the results page shows.
const previewRows = 50

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "index.html", map[string]interface{}{
		"MaxFiles":      a.config.MaxFiles,
		"MaxFileSizeMB": a.config.MaxFileSize / (1024 * 1024),
	})
}

func (a *App) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(a.config.MaxFileSize); err != nil {
		a.renderError(w, http.StatusBadRequest, "Falha ao ler o formulário de upload.")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		a.renderError(w, http.StatusBadRequest, "Nenhum arquivo enviado.")
		return
	}
	if a.config.MaxFiles > 0 && len(files) > a.config.MaxFiles {
		a.renderError(w, http.StatusBadRequest,
			fmt.Sprintf("Máximo de %d arquivos por envio.", a.config.MaxFiles))
		return
	}

	sources, cleanup, err := a.storeUploads(r.Context(), files)
	if err != nil {
		a.renderError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	result, err := a.service.Consolidate(r.Context(), sources)
	if err != nil {
		if core.IsInputError(err) {
			a.renderError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("[UI] Consolidation failed: %v", err)
		a.renderError(w, http.StatusInternalServerError, "Falha na consolidação dos arquivos.")
		return
	}

	id := a.results.Put(result)
	http.Redirect(w, r, "/results/"+id.String(), http.StatusSeeOther)
}

// storeUploads persists each uploaded file and builds the reader sources.
// The cleanup removes the stored files once the run is over.
func (a *App) storeUploads(ctx context.Context, files []*multipart.FileHeader) ([]ports.Source, func(), error) {
	var stored []string
	cleanup := func() {
		for _, path := range stored {
			if err := a.storage.Delete(context.Background(), path); err != nil {
				a.logger.Warn("[UI] Failed to remove upload %s: %v", path, err)
			}
		}
	}

	var sources []ports.Source
	for _, header := range files {
		if !excel.IsSupportedFilename(header.Filename) {
			cleanup()
			return nil, nil, core.NewUnsupportedFormatError(header.Filename)
		}
		if a.config.MaxFileSize > 0 && header.Size > a.config.MaxFileSize {
			cleanup()
			return nil, nil, fmt.Errorf("%w: %s (%.1f MB)", core.ErrFileTooLarge,
				header.Filename, float64(header.Size)/(1024*1024))
		}

		f, err := header.Open()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
		}
		path, err := a.storage.Store(ctx, f, header.Filename)
		f.Close()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to store upload %s: %w", header.Filename, err)
		}
		stored = append(stored, path)

		sources = append(sources, ports.Source{
			Name: header.Filename,
			Open: func() (io.ReadCloser, error) {
				return a.storage.GetReader(context.Background(), path)
			},
		})
	}
	return sources, cleanup, nil
}

func (a *App) handleResults(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseResultID(chi.URLParam(r, "id"))
	if err != nil {
		a.renderError(w, http.StatusBadRequest, "Identificador de resultado inválido.")
		return
	}
	result, ok := a.results.Get(id)
	if !ok {
		a.renderError(w, http.StatusNotFound, "Resultado não encontrado ou expirado. Envie os arquivos novamente.")
		return
	}

	preview := result.Consolidated.Rows
	truncated := false
	if len(preview) > previewRows {
		preview = preview[:previewRows]
		truncated = true
	}

	a.renderTemplate(w, "results.html", map[string]interface{}{
		"ResultID":      id.String(),
		"FileNames":     result.FileNames,
		"SkippedFiles":  result.SkippedFiles,
		"Columns":       result.Consolidated.Columns,
		"Preview":       preview,
		"Truncated":     truncated,
		"RowCount":      result.Consolidated.RowCount(),
		"ColumnCount":   len(result.Consolidated.Columns),
		"TableCount":    len(result.Manifest),
		"AnomalyReport": result.AnomalyReport,
		"Validation":    result.Validation,
		"Profiles":      result.Profiles,
	})
}

func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseResultID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid result id", http.StatusBadRequest)
		return
	}
	result, ok := a.results.Get(id)
	if !ok {
		http.Error(w, "result not found or expired", http.StatusNotFound)
		return
	}

	data, err := excel.WriteWorkbook(result.Consolidated)
	if err != nil {
		a.logger.Error("[UI] Failed to build workbook for %s: %v", id, err)
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", excel.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", excel.OutputFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (a *App) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := a.service.ListJobs(r.Context(), 50)
	if err != nil {
		a.logger.Error("[UI] Failed to list jobs: %v", err)
		a.renderError(w, http.StatusInternalServerError, "Falha ao carregar o histórico.")
		return
	}
	a.renderTemplate(w, "jobs.html", map[string]interface{}{
		"Jobs": jobs,
	})
}

func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "ajuda.html", map[string]interface{}{
		"Content": a.helpHTML,
	})
}

func (a *App) renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	a.renderTemplate(w, "error.html", map[string]interface{}{
		"Status":  status,
		"Message": message,
	})
}
