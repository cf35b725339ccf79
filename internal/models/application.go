// internal/models/application.go
package models

// ApplicationStatus is the pipeline stage of a job application.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "Applied"
	StatusInProgress   ApplicationStatus = "In progress"
	StatusInterviewing ApplicationStatus = "Interviewing"
	StatusOffer        ApplicationStatus = "Offer"
	StatusRejected     ApplicationStatus = "Rejected"
	StatusWithdrawn    ApplicationStatus = "Withdrawn"
)

// ApplicationStatuses lists every status in display order.
var ApplicationStatuses = []ApplicationStatus{
	StatusInProgress,
	StatusApplied,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "full-time"
	EmploymentPartTime  EmploymentType = "part-time"
	EmploymentContract  EmploymentType = "contract"
	EmploymentTemporary EmploymentType = "temporary"
)

var EmploymentTypes = []EmploymentType{
	EmploymentFullTime,
	EmploymentPartTime,
	EmploymentContract,
	EmploymentTemporary,
}

func (e EmploymentType) Valid() bool {
	for _, v := range EmploymentTypes {
		if e == v {
			return true
		}
	}
	return false
}

const (
	ApplicationNumberLength = 10
	MaxJobTitleLength       = 40
	MaxCompanyNameLength    = 40
	MaxContactEmailLength   = 40
)

// JobApplication is a stored row of the job_applications table.
type JobApplication struct {
	ID                     int64             `json:"id" db:"id"`
	ApplicationNumber      string            `json:"applicationNumber" db:"application_number"`
	JobTitle               string            `json:"jobTitle" db:"job_title"`
	CompanyName            string            `json:"companyName" db:"company_name"`
	DateApplied            Date              `json:"dateApplied" db:"date_applied"`
	ApplicationStatus      ApplicationStatus `json:"applicationStatus" db:"application_status"`
	EmploymentType         *EmploymentType   `json:"employmentType" db:"employment_type"`
	ContactEmail           *string           `json:"contactEmail" db:"contact_email"`
	ApplicationClosingDate *Date             `json:"applicationClosingDate" db:"application_closing_date"`
}

// NewJobApplication is a validated candidate record. The id and application
// number are assigned by the repository on insert.
type NewJobApplication struct {
	JobTitle               string            `json:"jobTitle"`
	CompanyName            string            `json:"companyName"`
	DateApplied            Date              `json:"dateApplied"`
	ApplicationStatus      ApplicationStatus `json:"applicationStatus"`
	EmploymentType         *EmploymentType   `json:"employmentType,omitempty"`
	ContactEmail           *string           `json:"contactEmail,omitempty"`
	ApplicationClosingDate *Date             `json:"applicationClosingDate,omitempty"`
}

// ApplicationPatch carries a partial update. Nil fields are left untouched.
type ApplicationPatch struct {
	ID                     int64              `json:"id"`
	JobTitle               *string            `json:"jobTitle,omitempty"`
	CompanyName            *string            `json:"companyName,omitempty"`
	DateApplied            *Date              `json:"dateApplied,omitempty"`
	ApplicationStatus      *ApplicationStatus `json:"applicationStatus,omitempty"`
	EmploymentType         *EmploymentType    `json:"employmentType,omitempty"`
	ContactEmail           *string            `json:"contactEmail,omitempty"`
	ApplicationClosingDate *Date              `json:"applicationClosingDate,omitempty"`
}

// IsEmpty reports whether the patch changes no column.
func (p *ApplicationPatch) IsEmpty() bool {
	return p.JobTitle == nil &&
		p.CompanyName == nil &&
		p.DateApplied == nil &&
		p.ApplicationStatus == nil &&
		p.EmploymentType == nil &&
		p.ContactEmail == nil &&
		p.ApplicationClosingDate == nil
}

// Apply returns a copy of app with the patch applied.
func (p *ApplicationPatch) Apply(app JobApplication) JobApplication {
	if p.JobTitle != nil {
		app.JobTitle = *p.JobTitle
	}
	if p.CompanyName != nil {
		app.CompanyName = *p.CompanyName
	}
	if p.DateApplied != nil {
		app.DateApplied = *p.DateApplied
	}
	if p.ApplicationStatus != nil {
		app.ApplicationStatus = *p.ApplicationStatus
	}
	if p.EmploymentType != nil {
		et := *p.EmploymentType
		app.EmploymentType = &et
	}
	if p.ContactEmail != nil {
		email := *p.ContactEmail
		app.ContactEmail = &email
	}
	if p.ApplicationClosingDate != nil {
		d := *p.ApplicationClosingDate
		app.ApplicationClosingDate = &d
	}
	return app
}

// StatusPatch builds the patch used by the status edit flow.
func StatusPatch(id int64, status ApplicationStatus) *ApplicationPatch {
	return &ApplicationPatch{ID: id, ApplicationStatus: &status}
}
