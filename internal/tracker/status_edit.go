// internal/tracker/status_edit.go
package tracker

import (
	"errors"
	"fmt"

	"jobmindr/internal/models"
)

var (
	ErrNoStatusEdit  = errors.New("no status edit in progress")
	ErrInvalidStatus = errors.New("invalid application status")
)

// StatusEdit is the two-step change-status dialog: open it on a row, pick a
// status, confirm.
type StatusEdit struct {
	target *models.JobApplication
	status models.ApplicationStatus
}

// BeginStatusEdit opens the dialog pre-filled with the row's current status.
func BeginStatusEdit(app models.JobApplication) *StatusEdit {
	return &StatusEdit{target: &app, status: app.ApplicationStatus}
}

func (e *StatusEdit) Target() *models.JobApplication {
	return e.target
}

func (e *StatusEdit) Status() models.ApplicationStatus {
	return e.status
}

func (e *StatusEdit) Choose(status models.ApplicationStatus) error {
	if e.target == nil {
		return ErrNoStatusEdit
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	e.status = status
	return nil
}

// Confirm yields the patch to send and closes the dialog.
func (e *StatusEdit) Confirm() (*models.ApplicationPatch, error) {
	if e.target == nil || e.status == "" {
		return nil, ErrNoStatusEdit
	}
	patch := models.StatusPatch(e.target.ID, e.status)
	e.Cancel()
	return patch, nil
}

func (e *StatusEdit) Cancel() {
	e.target = nil
	e.status = ""
}
