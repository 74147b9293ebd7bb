package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pario-ai/reqlens/pkg/ingest"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/store"
)

type datasetsHandler struct {
	deps RouterDeps
}

// Create imports a CSV export from the request body.
func (h *datasetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes)
	records, err := ingest.Parse(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		var headerErr *ingest.HeaderError
		var rowErr *ingest.RowError
		switch {
		case errors.As(err, &tooLarge):
			h.deps.Metrics.IncIngestFailure("too_large")
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds the size limit")
			return
		case errors.Is(err, ingest.ErrNoData):
			h.deps.Metrics.IncIngestFailure("empty")
		case errors.As(err, &headerErr):
			h.deps.Metrics.IncIngestFailure("header")
		case errors.As(err, &rowErr):
			h.deps.Metrics.IncIngestFailure("row")
		default:
			h.deps.Metrics.IncIngestFailure("read")
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid_csv", err.Error())
		return
	}

	ds, err := h.deps.Store.CreateDataset(r.Context(), r.URL.Query().Get("name"), records)
	if err != nil {
		h.deps.Metrics.IncIngestFailure("store")
		h.deps.Logger.Error().Err(err).Msg("store dataset")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to store dataset")
		return
	}
	h.deps.Metrics.AddIngested(len(records))
	h.deps.Logger.Info().Str("dataset", ds.ID).Int("records", ds.RecordCount).Msg("dataset imported")
	writeJSON(w, http.StatusCreated, ds)
}

// List returns all datasets, newest first.
func (h *datasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Store.ListDatasets(r.Context())
	if err != nil {
		h.deps.Logger.Error().Err(err).Msg("list datasets")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list datasets")
		return
	}
	if list == nil {
		list = []models.Dataset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": list})
}

// Get returns one dataset's metadata.
func (h *datasetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ds, ok := resolveDataset(w, r, h.deps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// Delete removes a dataset.
func (h *datasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ds, ok := resolveDataset(w, r, h.deps)
	if !ok {
		return
	}
	if err := h.deps.Store.DeleteDataset(r.Context(), ds.ID); err != nil {
		writeStoreError(w, h.deps, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveDataset looks up the {id} path parameter; "latest" selects the
// newest import.
func resolveDataset(w http.ResponseWriter, r *http.Request, deps RouterDeps) (models.Dataset, bool) {
	id := chi.URLParam(r, "id")
	var (
		ds  models.Dataset
		err error
	)
	if id == "latest" {
		ds, err = deps.Store.Latest(r.Context())
	} else {
		ds, err = deps.Store.Dataset(r.Context(), id)
	}
	if err != nil {
		writeStoreError(w, deps, err)
		return ds, false
	}
	return ds, true
}

func writeStoreError(w http.ResponseWriter, deps RouterDeps, err error) {
	if errors.Is(err, store.ErrDatasetNotFound) {
		writeError(w, http.StatusNotFound, "dataset_not_found", "dataset not found")
		return
	}
	deps.Logger.Error().Err(err).Msg("store query")
	writeError(w, http.StatusInternalServerError, "internal_error", "failed to read dataset")
}
