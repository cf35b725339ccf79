// internal/handlers/applications/handler.go
package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	apperrors "jobmindr/internal/common/errors"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/validation"
	"jobmindr/internal/models"
	"jobmindr/internal/repository"

	"github.com/gorilla/mux"
)

const (
	CollectionPath = "/job-applications"
	ItemPath       = "/job-applications/{id}"

	maxBodyBytes = 1 << 20
)

var (
	ErrNotAnObject = errors.New("request body must be a JSON object")
	ErrIDsNotArray = errors.New("ids must be an array")
)

type Handler struct {
	config *Config
	store  repository.Store
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store repository.Store, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		errors: errs,
		logger: log.WithFields(map[string]interface{}{"handler": "job-applications"}),
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc(CollectionPath, h.List).Methods(http.MethodGet)
	r.HandleFunc(CollectionPath, h.Create).Methods(http.MethodPost)
	r.HandleFunc(CollectionPath, h.Delete).Methods(http.MethodDelete)
	r.HandleFunc(ItemPath, h.Update).Methods(http.MethodPut)
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.config.RequestTimeout)
}

// List handles GET /job-applications with optional filter and sort parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ListFilterFromQuery(r.URL.Query())
	if filter.DateApplied != "" {
		if _, err := models.ParseDate(filter.DateApplied); err != nil {
			h.errors.WriteError(w, r, apperrors.NewInvalidFilterError("dateApplied", err))
			return
		}
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	apps, err := h.store.GetFiltered(ctx, filter)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidFilter) {
			h.errors.WriteError(w, r, apperrors.NewInvalidFilterError("dateApplied", err))
			return
		}
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError("Failed to fetch job applications", err))
		return
	}

	logger.FromContext(r.Context(), h.logger).Debug("job applications listed", map[string]interface{}{
		"count":  len(apps),
		"filter": filter.CacheKey(),
	})
	apperrors.WriteJSON(w, http.StatusOK, apps)
}

// Create handles POST /job-applications.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(r)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	app, result := validation.ValidateCreate(body)
	if !result.Valid {
		h.errors.WriteError(w, r, apperrors.NewValidationFailedError(result.Errors))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	created, err := h.store.Create(ctx, app)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNumberExhausted) {
			h.errors.WriteError(w, r, apperrors.NewApplicationNumberExhaustedError(err))
			return
		}
		h.errors.WriteError(w, r, apperrors.NewDatabaseInsertFailedError(err))
		return
	}

	apperrors.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /job-applications/{id}. The path id overrides any id in the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidIDError(rawID))
		return
	}

	body, err := decodeObject(r)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	body["id"] = id

	patch, result := validation.ValidateUpdate(body)
	if !result.Valid {
		h.errors.WriteError(w, r, apperrors.NewValidationFailedError(result.Errors))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	updated, err := h.store.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.errors.WriteError(w, r, apperrors.NewApplicationNotFoundError(id))
			return
		}
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError("Failed to update job application", err))
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /job-applications with body {"ids": [...]}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidIDsError(err.Error()))
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidIDsError(err.Error()))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	deleted, err := h.store.DeleteMany(ctx, ids)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewDatabaseQueryFailedError("Failed to delete job applications", err))
		return
	}

	apperrors.WriteJSON(w, http.StatusOK, DeleteResponse{
		Message:      fmt.Sprintf("%d job application(s) deleted successfully", len(ids)),
		DeletedCount: deleted,
	})
}

// decodeObject reads a JSON object body. An empty body reads as {}.
func decodeObject(r *http.Request) (map[string]interface{}, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return v, nil
	case nil:
		return map[string]interface{}{}, nil
	default:
		return nil, ErrNotAnObject
	}
}

// parseIDs accepts only a JSON array of integers.
func parseIDs(raw json.RawMessage) ([]int64, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrIDsNotArray
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, ErrIDsNotArray
	}

	ids := make([]int64, 0, len(items))
	for i, item := range items {
		n, ok := item.(json.Number)
		if !ok {
			return nil, fmt.Errorf("ids[%d] is not a number", i)
		}
		id, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("ids[%d] is not an integer", i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
