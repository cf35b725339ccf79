package tracker

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobmindr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func rows(ids ...int64) []models.JobApplication {
	apps := make([]models.JobApplication, 0, len(ids))
	for _, id := range ids {
		apps = append(apps, models.JobApplication{ID: id, CompanyName: "Co", ApplicationStatus: models.StatusApplied})
	}
	return apps
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type scriptedPrompter struct {
	answer   bool
	err      error
	question string
}

func (p *scriptedPrompter) Confirm(q string) (bool, error) {
	p.question = q
	return p.answer, p.err
}

// ==========================
// Sort Tests
// ==========================

func TestSortState_Toggle(t *testing.T) {
	s := NewSortState()
	assert.Equal(t, SortState{Field: models.SortByDateApplied, Order: models.SortDesc}, s)

	s.Toggle(models.SortByDateApplied)
	assert.Equal(t, models.SortAsc, s.Order)

	s.Toggle(models.SortByCompanyName)
	assert.Equal(t, SortState{Field: models.SortByCompanyName, Order: models.SortAsc}, s)

	s.Toggle(models.SortByCompanyName)
	assert.Equal(t, models.SortDesc, s.Order)

	s.Toggle(models.SortByJobTitle)
	assert.Equal(t, SortState{Field: models.SortByJobTitle, Order: models.SortAsc}, s)
}

func TestSortState_Apply(t *testing.T) {
	s := SortState{Field: models.SortByApplicationStatus, Order: models.SortAsc}

	f := s.Apply(models.ListFilter{CompanyName: "acme"})

	assert.Equal(t, models.ListFilter{
		CompanyName: "acme",
		SortBy:      models.SortByApplicationStatus,
		SortOrder:   models.SortAsc,
	}, f)
}

// ==========================
// Selection Tests
// ==========================

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()
	s.Toggle(3)
	s.Toggle(1)
	s.Toggle(3)

	assert.Equal(t, []int64{1}, s.IDs())
	s.Set(5, true)
	s.Set(1, false)
	assert.Equal(t, []int64{5}, s.IDs())
}

func TestSelection_ToggleAll(t *testing.T) {
	loaded := rows(1, 2, 3)
	s := NewSelection()

	s.ToggleAll(loaded)
	assert.Equal(t, []int64{1, 2, 3}, s.IDs())
	assert.True(t, s.AllSelected(loaded))

	s.ToggleAll(loaded)
	assert.Zero(t, s.Len())

	s.Toggle(2)
	s.ToggleAll(loaded)
	assert.Equal(t, []int64{1, 2, 3}, s.IDs(), "partial selection becomes full")
}

func TestSelection_EmptyTableNeverAllSelected(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.AllSelected(nil))
	s.ToggleAll(nil)
	assert.Zero(t, s.Len())
}

func TestSelection_Prune(t *testing.T) {
	s := NewSelection()
	s.ToggleAll(rows(1, 2, 3))

	s.Prune(rows(2, 3, 4))

	assert.Equal(t, []int64{2, 3}, s.IDs())
}

// ==========================
// Status Edit & Delete Tests
// ==========================

func TestStatusEdit_Flow(t *testing.T) {
	app := models.JobApplication{ID: 9, ApplicationStatus: models.StatusInterviewing}
	edit := BeginStatusEdit(app)

	assert.Equal(t, models.StatusInterviewing, edit.Status())
	require.NoError(t, edit.Choose(models.StatusOffer))

	patch, err := edit.Confirm()
	require.NoError(t, err)
	assert.Equal(t, int64(9), patch.ID)
	require.NotNil(t, patch.ApplicationStatus)
	assert.Equal(t, models.StatusOffer, *patch.ApplicationStatus)
	assert.Nil(t, patch.JobTitle)

	_, err = edit.Confirm()
	assert.ErrorIs(t, err, ErrNoStatusEdit)
}

func TestStatusEdit_RejectsUnknownStatus(t *testing.T) {
	edit := BeginStatusEdit(models.JobApplication{ID: 1, ApplicationStatus: models.StatusApplied})

	err := edit.Choose("Ghosted")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, models.StatusApplied, edit.Status())
}

func TestStatusEdit_Cancel(t *testing.T) {
	edit := BeginStatusEdit(models.JobApplication{ID: 1, ApplicationStatus: models.StatusApplied})
	edit.Cancel()

	assert.Nil(t, edit.Target())
	assert.ErrorIs(t, edit.Choose(models.StatusOffer), ErrNoStatusEdit)
}

func TestConfirmDelete(t *testing.T) {
	p := &scriptedPrompter{answer: true}

	ok, err := ConfirmDelete(p, []int64{1, 2})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, p.question, "Delete 2 job application(s)?")

	p = &scriptedPrompter{}
	ok, err = ConfirmDelete(p, nil)
	assert.ErrorIs(t, err, ErrNothingSelected)
	assert.False(t, ok)
	assert.Empty(t, p.question, "nothing selected never prompts")

	p = &scriptedPrompter{err: errors.New("stdin closed")}
	_, err = ConfirmDelete(p, []int64{1})
	assert.Error(t, err)
}

func TestLinePrompter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yeah\n", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewLinePrompter(strings.NewReader(tt.input), &out)

		got, err := p.Confirm("Delete?")

		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Delete? [y/N]: ", out.String())
	}
}

// ==========================
// Notifier Tests
// ==========================

func TestNotifier_AutoDismiss(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	n := NewNotifier(0, clock.now)

	n.Success("Job application created successfully!")
	clock.advance(2 * time.Second)
	n.Error("Failed to update application status.")

	active := n.Active()
	require.Len(t, active, 2)
	assert.Equal(t, NotificationSuccess, active[0].Kind)

	clock.advance(time.Second)
	active = n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, NotificationError, active[0].Kind)

	clock.advance(2 * time.Second)
	assert.Empty(t, n.Active())
}

func TestNotifier_Dismiss(t *testing.T) {
	n := NewNotifier(time.Minute, nil)
	n.Success("ok")
	n.Dismiss()
	assert.Empty(t, n.Active())
}

// ==========================
// Session Tests
// ==========================

func TestSessionStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewSessionStore(path)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, err = store.Save("jane@example.com")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	sess, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "jane@example.com", sess.Email)

	require.NoError(t, store.Clear())
	sess, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	assert.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestSessionStore_CorruptFileIsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	sess, err := NewSessionStore(path).Load()

	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCompanyNames(t *testing.T) {
	apps := []models.JobApplication{
		{CompanyName: "Globex"}, {CompanyName: "Acme"}, {CompanyName: "Globex"}, {CompanyName: "Initech"},
	}
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, CompanyNames(apps))
	assert.Empty(t, CompanyNames(nil))
}
