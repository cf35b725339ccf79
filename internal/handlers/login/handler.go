// internal/handlers/login/handler.go
package login

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "jobmindr/internal/common/errors"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/validation"
	"jobmindr/internal/models"

	"github.com/gorilla/mux"
)

const Path = "/login"

// Handler implements the cosmetic login gate. Any well-formed email with a
// non-empty password is accepted; nothing is looked up or stored.
type Handler struct {
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		errors: errs,
		logger: log.WithFields(map[string]interface{}{"handler": "login"}),
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc(Path, h.Login).Methods(http.MethodPost)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	email, password := body["email"], body["password"]
	if !truthy(email) || !truthy(password) {
		h.errors.WriteError(w, r, apperrors.NewMissingCredentialsError())
		return
	}

	addr := text(email)
	if !validation.ValidateLoginEmail(addr) {
		h.errors.WriteError(w, r, apperrors.NewInvalidEmailError())
		return
	}

	logger.FromContext(r.Context(), h.logger).Info("login accepted", map[string]interface{}{
		"email": addr,
	})
	apperrors.WriteJSON(w, http.StatusOK, models.LoginResponse{
		Message: "Login successful",
		User:    models.LoginUser{Email: addr},
	})
}

// truthy treats absent, null, false, zero and empty string as missing.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func text(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
