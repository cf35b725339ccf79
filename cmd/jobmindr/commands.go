// cmd/jobmindr/commands.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"jobmindr/internal/client"
	"jobmindr/internal/common/validation"
	"jobmindr/internal/models"
	"jobmindr/internal/tracker"
)

var errNotLoggedIn = errors.New("not logged in, run: jobmindr login -email <email> -password <password>")

// apiClient is the part of client.Client the commands use.
type apiClient interface {
	ListApplications(ctx context.Context, filter models.ListFilter) ([]models.JobApplication, error)
	CreateApplication(ctx context.Context, app *models.NewJobApplication) (*models.JobApplication, error)
	UpdateApplication(ctx context.Context, patch *models.ApplicationPatch) (*models.JobApplication, error)
	DeleteApplications(ctx context.Context, ids []int64) (*client.DeleteResult, error)
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

type app struct {
	api      apiClient
	session  *tracker.SessionStore
	notifier *tracker.Notifier
	in       io.Reader
	out      io.Writer
	timeout  time.Duration
}

func (a *app) run(args []string) int {
	if len(args) < 1 {
		a.help()
		return 1
	}

	var err error
	switch args[0] {
	case "login":
		err = a.login(args[1:])
	case "logout":
		err = a.logout()
	case "whoami":
		err = a.whoami()
	case "list":
		err = a.list(args[1:])
	case "add":
		err = a.add(args[1:])
	case "set-status":
		err = a.setStatus(args[1:])
	case "delete":
		err = a.delete(args[1:])
	case "help", "-h", "--help":
		a.help()
		return 0
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n\n", args[0])
		a.help()
		return 1
	}

	if err != nil {
		a.notifier.Error(describe(err))
	}
	a.flush()
	if err != nil {
		return 1
	}
	return 0
}

func (a *app) context() (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), a.timeout)
}

func (a *app) requireSession() (*models.Session, error) {
	sess, err := a.session.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errNotLoggedIn
	}
	return sess, nil
}

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	resp, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if _, err := a.session.Save(resp.User.Email); err != nil {
		return err
	}
	a.notifier.Success(resp.Message)
	return nil
}

func (a *app) logout() error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	a.notifier.Success("Logged out")
	return nil
}

func (a *app) whoami() error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, sess.Email)
	return nil
}

func (a *app) list(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	company := fs.String("company", "", "Company name contains")
	status := fs.String("status", "", "Exact application status")
	date := fs.String("date", "", "Date applied (YYYY-MM-DD)")
	sortBy := fs.String("sort", "", "Column to sort by, as if its header were clicked: companyName, dateApplied, applicationStatus, jobTitle")
	order := fs.String("order", "", "Override sort direction: asc or desc")
	companies := fs.Bool("companies", false, "Print the distinct company names instead of the table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}

	sort := tracker.NewSortState()
	if *sortBy != "" {
		sort.Toggle(models.SortField(*sortBy))
	}
	if *order != "" {
		sort.Order = models.SortOrder(*order)
	}
	filter := sort.Apply(models.ListFilter{CompanyName: *company, Status: *status, DateApplied: *date})

	ctx, cancel := a.context()
	defer cancel()

	apps, err := a.api.ListApplications(ctx, filter)
	if err != nil {
		return err
	}

	if *companies {
		for _, name := range tracker.CompanyNames(apps) {
			fmt.Fprintln(a.out, name)
		}
		return nil
	}
	printTable(a.out, apps)
	return nil
}

func (a *app) add(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.out)
	title := fs.String("title", "", "Job title (required)")
	company := fs.String("company", "", "Company name (required)")
	date := fs.String("date", time.Now().Format(models.DateLayout), "Date applied, YYYY-MM-DD")
	status := fs.String("status", string(models.StatusApplied), "Application status")
	employment := fs.String("employment", "", "Employment type: full-time, part-time, contract, temporary")
	contact := fs.String("contact", "", "Contact email")
	closing := fs.String("closing", "", "Application closing date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}

	applied, err := models.ParseDate(*date)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}
	candidate := &models.NewJobApplication{
		JobTitle:          *title,
		CompanyName:       *company,
		DateApplied:       applied,
		ApplicationStatus: models.ApplicationStatus(*status),
	}
	if *employment != "" {
		et := models.EmploymentType(*employment)
		candidate.EmploymentType = &et
	}
	if *contact != "" {
		if !validation.ValidateEmail(*contact) {
			return errors.New("invalid -contact: Invalid email format")
		}
		candidate.ContactEmail = contact
	}
	if *closing != "" {
		d, err := models.ParseDate(*closing)
		if err != nil {
			return fmt.Errorf("invalid -closing: %w", err)
		}
		candidate.ApplicationClosingDate = &d
	}

	ctx, cancel := a.context()
	defer cancel()

	created, err := a.api.CreateApplication(ctx, candidate)
	if err != nil {
		return err
	}
	a.notifier.Success(fmt.Sprintf("Job application %s created successfully!", created.ApplicationNumber))
	return nil
}

func (a *app) setStatus(args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	fs.SetOutput(a.out)
	id := fs.Int64("id", 0, "Application id (required)")
	status := fs.String("status", "", "New status (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}

	ctx, cancel := a.context()
	defer cancel()

	apps, err := a.api.ListApplications(ctx, models.ListFilter{})
	if err != nil {
		return err
	}
	var row *models.JobApplication
	for i := range apps {
		if apps[i].ID == *id {
			row = &apps[i]
			break
		}
	}
	if row == nil {
		return fmt.Errorf("job application %d not found", *id)
	}

	edit := tracker.BeginStatusEdit(*row)
	if err := edit.Choose(models.ApplicationStatus(*status)); err != nil {
		return err
	}
	patch, err := edit.Confirm()
	if err != nil {
		return err
	}
	if _, err := a.api.UpdateApplication(ctx, patch); err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	a.notifier.Success("Application status updated successfully!")
	return nil
}

func (a *app) delete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.out)
	rawIDs := fs.String("ids", "", "Comma-separated application ids (required)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}

	selection := tracker.NewSelection()
	for _, part := range strings.Split(*rawIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", part)
		}
		selection.Set(id, true)
	}

	var prompter tracker.Prompter = tracker.NewLinePrompter(a.in, a.out)
	if *yes {
		prompter = tracker.AlwaysYes{}
	}
	ids := selection.IDs()
	ok, err := tracker.ConfirmDelete(prompter, ids)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	ctx, cancel := a.context()
	defer cancel()

	result, err := a.api.DeleteApplications(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to delete job applications: %w", err)
	}
	a.notifier.Success(result.Message)
	return nil
}

// flush prints pending notifications. A one-shot command has no screen to
// auto-dismiss them from, so they are shown once and cleared.
func (a *app) flush() {
	for _, n := range a.notifier.Active() {
		prefix := "✓"
		if n.Kind == tracker.NotificationError {
			prefix = "✗"
		}
		fmt.Fprintf(a.out, "%s %s\n", prefix, n.Message)
	}
	a.notifier.Dismiss()
}

func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

func printTable(w io.Writer, apps []models.JobApplication) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No job applications found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tJOB TITLE\tCOMPANY\tAPPLIED\tSTATUS\tTYPE\tCONTACT\tCLOSES")
	for _, app := range apps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID,
			app.ApplicationNumber,
			app.JobTitle,
			app.CompanyName,
			app.DateApplied,
			app.ApplicationStatus,
			optional(app.EmploymentType),
			optional(app.ContactEmail),
			optional(app.ApplicationClosingDate),
		)
	}
	_ = tw.Flush()
}

func optional[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func (a *app) help() {
	fmt.Fprintln(a.out, `jobmindr - track your job applications

Usage:
  jobmindr login -email <email> -password <password>
  jobmindr logout
  jobmindr whoami
  jobmindr list [-company <text>] [-status <status>] [-date YYYY-MM-DD] [-sort <column>] [-order asc|desc] [-companies]
  jobmindr add -title <title> -company <company> [-date YYYY-MM-DD] [-status <status>] [-employment <type>] [-contact <email>] [-closing YYYY-MM-DD]
  jobmindr set-status -id <id> -status <status>
  jobmindr delete -ids <id,id,...> [-yes]`)
}
