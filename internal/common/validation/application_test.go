package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmindr/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"jobTitle":          "Backend Engineer",
		"companyName":       "Google",
		"dateApplied":       "2024-01-15",
		"applicationStatus": "Applied",
	}
}

func with(body map[string]interface{}, key string, value interface{}) map[string]interface{} {
	body[key] = value
	return body
}

// ==========================
// Create Validation Tests
// ==========================

func TestValidateCreate_Success(t *testing.T) {
	body := validBody()
	body["employmentType"] = "full-time"
	body["contactEmail"] = "jane.doe@google.com"
	body["applicationClosingDate"] = "2024-02-01"

	app, result := ValidateCreate(body)

	require.True(t, result.Valid, result.GetErrorMessages())
	require.NotNil(t, app)
	assert.Equal(t, "Backend Engineer", app.JobTitle)
	assert.Equal(t, "Google", app.CompanyName)
	assert.Equal(t, models.NewDate(2024, 1, 15), app.DateApplied)
	assert.Equal(t, models.StatusApplied, app.ApplicationStatus)
	require.NotNil(t, app.EmploymentType)
	assert.Equal(t, models.EmploymentFullTime, *app.EmploymentType)
	require.NotNil(t, app.ContactEmail)
	assert.Equal(t, "jane.doe@google.com", *app.ContactEmail)
	require.NotNil(t, app.ApplicationClosingDate)
	assert.Equal(t, "2024-02-01", app.ApplicationClosingDate.String())
}

func TestValidateCreate_EmptyOptionalsBecomeAbsent(t *testing.T) {
	body := validBody()
	body["employmentType"] = ""
	body["contactEmail"] = ""
	body["applicationClosingDate"] = nil

	app, result := ValidateCreate(body)

	require.True(t, result.Valid, result.GetErrorMessages())
	assert.Nil(t, app.EmploymentType)
	assert.Nil(t, app.ContactEmail)
	assert.Nil(t, app.ApplicationClosingDate)
}

func TestValidateCreate_ServerAssignedAndUnknownFieldsDropped(t *testing.T) {
	body := validBody()
	body["id"] = 99
	body["applicationNumber"] = "AAAAAAAAAA"
	body["favouriteColour"] = "green"

	app, result := ValidateCreate(body)

	require.True(t, result.Valid, result.GetErrorMessages())
	require.NotNil(t, app)
}

func TestValidateCreate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		field   string
		message string
		code    string
	}{
		{
			name:    "missing job title",
			body:    func() map[string]interface{} { b := validBody(); delete(b, "jobTitle"); return b }(),
			field:   "jobTitle",
			message: "Job title is required",
			code:    CodeRequiredFieldMissing,
		},
		{
			name:    "empty company name",
			body:    with(validBody(), "companyName", ""),
			field:   "companyName",
			message: "Company name is required",
			code:    CodeMinLengthViolation,
		},
		{
			name:    "null date applied",
			body:    with(validBody(), "dateApplied", nil),
			field:   "dateApplied",
			message: "Date applied is required",
			code:    CodeRequiredFieldMissing,
		},
		{
			name:    "job title of 41 characters",
			body:    with(validBody(), "jobTitle", strings.Repeat("a", 41)),
			field:   "jobTitle",
			message: "Job title must be at most 40 characters",
			code:    CodeMaxLengthViolation,
		},
		{
			name:    "unknown status",
			body:    with(validBody(), "applicationStatus", "Ghosted"),
			field:   "applicationStatus",
			message: "Application status must be one of: In progress, Applied, Interviewing, Offer, Rejected, Withdrawn",
			code:    CodeInvalidEnumValue,
		},
		{
			name:  "unknown employment type",
			body:  with(validBody(), "employmentType", "freelance"),
			field: "employmentType",
			code:  CodeInvalidEnumValue,
		},
		{
			name:    "bad contact email",
			body:    with(validBody(), "contactEmail", "not-an-email"),
			field:   "contactEmail",
			message: "Invalid email format",
			code:    CodePatternMismatch,
		},
		{
			name:  "date in wrong format",
			body:  with(validBody(), "dateApplied", "15/01/2024"),
			field: "dateApplied",
			code:  CodePatternMismatch,
		},
		{
			name:  "impossible calendar date",
			body:  with(validBody(), "applicationClosingDate", "2024-02-30"),
			field: "applicationClosingDate",
			code:  CodeInvalidDate,
		},
		{
			name:  "wrong type",
			body:  with(validBody(), "jobTitle", 42),
			field: "jobTitle",
			code:  CodeInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, result := ValidateCreate(tt.body)

			assert.Nil(t, app)
			require.False(t, result.Valid)
			errs := result.GetErrorsForField(tt.field)
			require.Len(t, errs, 1, result.GetErrorMessages())
			assert.Equal(t, tt.code, errs[0].Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errs[0].Message)
			}
		})
	}
}

func TestValidateCreate_LengthCountsCharacters(t *testing.T) {
	// 40 multi-byte characters fit.
	_, result := ValidateCreate(with(validBody(), "companyName", strings.Repeat("é", 40)))
	assert.True(t, result.Valid, result.GetErrorMessages())
}

func TestValidateCreate_ErrorsInFieldOrder(t *testing.T) {
	_, result := ValidateCreate(map[string]interface{}{})

	require.False(t, result.Valid)
	fields := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{"jobTitle", "companyName", "dateApplied", "applicationStatus"}, fields)
}

// ==========================
// Update Validation Tests
// ==========================

func TestValidateUpdate_StatusOnly(t *testing.T) {
	patch, result := ValidateUpdate(map[string]interface{}{
		"id":                int64(7),
		"applicationStatus": "Offer",
	})

	require.True(t, result.Valid, result.GetErrorMessages())
	assert.Equal(t, int64(7), patch.ID)
	require.NotNil(t, patch.ApplicationStatus)
	assert.Equal(t, models.StatusOffer, *patch.ApplicationStatus)
	assert.Nil(t, patch.JobTitle)
	assert.Nil(t, patch.DateApplied)
}

func TestValidateUpdate_AcceptsJSONNumbers(t *testing.T) {
	patch, result := ValidateUpdate(map[string]interface{}{
		"id":       json.Number("12"),
		"jobTitle": "Staff Engineer",
	})

	require.True(t, result.Valid, result.GetErrorMessages())
	assert.Equal(t, int64(12), patch.ID)
	require.NotNil(t, patch.JobTitle)
	assert.Equal(t, "Staff Engineer", *patch.JobTitle)
}

func TestValidateUpdate_Failures(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		_, result := ValidateUpdate(map[string]interface{}{"applicationStatus": "Offer"})
		require.False(t, result.Valid)
		assert.True(t, result.HasErrors("id"))
	})

	t.Run("fractional id", func(t *testing.T) {
		_, result := ValidateUpdate(map[string]interface{}{"id": 1.5})
		require.False(t, result.Valid)
		assert.Equal(t, CodeInvalidType, result.GetErrorsForField("id")[0].Code)
	})

	t.Run("empty job title still rejected", func(t *testing.T) {
		_, result := ValidateUpdate(map[string]interface{}{"id": 1, "jobTitle": ""})
		require.False(t, result.Valid)
		assert.Equal(t, "Job title is required", result.GetErrorsForField("jobTitle")[0].Message)
	})

	t.Run("bad status", func(t *testing.T) {
		_, result := ValidateUpdate(map[string]interface{}{"id": 1, "applicationStatus": "Hired"})
		require.False(t, result.Valid)
		assert.True(t, result.HasErrors("applicationStatus"))
	})
}

// ==========================
// Schema Consistency Tests
// ==========================

func TestSchemas_MatchModelEnums(t *testing.T) {
	for _, name := range []string{"schemas/create_application.json", "schemas/update_application.json"} {
		raw, err := schemaFS.ReadFile(name)
		require.NoError(t, err)

		var doc struct {
			Properties map[string]struct {
				Enum    []string `json:"enum"`
				Pattern string   `json:"pattern"`
			} `json:"properties"`
		}
		require.NoError(t, json.Unmarshal(raw, &doc))

		var statuses []string
		for _, s := range models.ApplicationStatuses {
			statuses = append(statuses, string(s))
		}
		var types []string
		for _, e := range models.EmploymentTypes {
			types = append(types, string(e))
		}
		assert.Equal(t, statuses, doc.Properties["applicationStatus"].Enum, name)
		assert.Equal(t, types, doc.Properties["employmentType"].Enum, name)
		assert.Equal(t, EmailPattern, doc.Properties["contactEmail"].Pattern, name)
	}
}

func TestEmailValidators(t *testing.T) {
	assert.True(t, ValidateEmail("a.b@example.com"))
	assert.False(t, ValidateEmail("a@b"))
	assert.True(t, ValidateLoginEmail("user@example.com"))
	assert.False(t, ValidateLoginEmail("user @example.com"))
	assert.False(t, ValidateLoginEmail("userexample.com"))
}
