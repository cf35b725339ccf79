package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"jobmindr/internal/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	createSchema = mustLoadSchema("schemas/create_application.json")
	updateSchema = mustLoadSchema("schemas/update_application.json")
)

func mustLoadSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("validation: read %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("validation: compile %s: %v", name, err))
	}
	return schema
}

// fieldOrder is the record's field order; errors are reported in it.
var fieldOrder = []string{
	"id",
	"jobTitle",
	"companyName",
	"dateApplied",
	"applicationStatus",
	"employmentType",
	"contactEmail",
	"applicationClosingDate",
}

var optionalFields = map[string]bool{
	"employmentType":         true,
	"contactEmail":           true,
	"applicationClosingDate": true,
}

var dateFields = []string{"dateApplied", "applicationClosingDate"}

var fieldLabels = map[string]string{
	"id":                     "ID",
	"jobTitle":               "Job title",
	"companyName":            "Company name",
	"dateApplied":            "Date applied",
	"applicationStatus":      "Application status",
	"employmentType":         "Employment type",
	"contactEmail":           "Contact email",
	"applicationClosingDate": "Application closing date",
}

// Lower wins when a field fails several keywords.
var errorPriority = map[string]int{
	"required":     0,
	"invalid_type": 1,
	"string_gte":   2,
	"string_lte":   3,
	"enum":         3,
	"pattern":      4,
}

// ValidateCreate validates a candidate record. Server-assigned fields and
// unknown properties are dropped, empty optionals are treated as absent.
func ValidateCreate(body map[string]interface{}) (*models.NewJobApplication, *ValidationResult) {
	doc := normalize(body, false)
	if errs := check(createSchema, doc); len(errs) > 0 {
		return nil, invalid(errs)
	}

	var app models.NewJobApplication
	if err := decode(doc, &app); err != nil {
		return nil, invalid([]ValidationError{documentError(err)})
	}
	return &app, valid()
}

// ValidateUpdate validates a partial update. id is required, every other
// field may be absent.
func ValidateUpdate(body map[string]interface{}) (*models.ApplicationPatch, *ValidationResult) {
	doc := normalize(body, true)
	if errs := check(updateSchema, doc); len(errs) > 0 {
		return nil, invalid(errs)
	}

	var patch models.ApplicationPatch
	if err := decode(doc, &patch); err != nil {
		return nil, invalid([]ValidationError{documentError(err)})
	}
	return &patch, valid()
}

func normalize(body map[string]interface{}, keepID bool) map[string]interface{} {
	doc := make(map[string]interface{}, len(fieldOrder))
	for _, field := range fieldOrder {
		if field == "id" && !keepID {
			continue
		}
		v, ok := body[field]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" && optionalFields[field] {
			continue
		}
		doc[field] = v
	}
	return doc
}

func check(schema *gojsonschema.Schema, doc map[string]interface{}) []ValidationError {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []ValidationError{documentError(err)}
	}

	type ranked struct {
		err  ValidationError
		rank int
	}
	byField := make(map[string]ranked)
	for _, desc := range result.Errors() {
		field, ve := toValidationError(desc)
		rank, ok := errorPriority[desc.Type()]
		if !ok {
			rank = len(errorPriority)
		}
		if cur, seen := byField[field]; seen && cur.rank <= rank {
			continue
		}
		byField[field] = ranked{err: ve, rank: rank}
	}

	// Calendar check for dates that already have the right shape.
	for _, field := range dateFields {
		if _, failed := byField[field]; failed {
			continue
		}
		s, ok := doc[field].(string)
		if !ok {
			continue
		}
		if _, err := models.ParseDate(s); err != nil {
			byField[field] = ranked{err: ValidationError{
				Field:   field,
				Message: fieldLabels[field] + " is not a valid date",
				Code:    CodeInvalidDate,
			}}
		}
	}

	if len(byField) == 0 {
		return nil
	}
	errs := make([]ValidationError, 0, len(byField))
	for _, field := range fieldOrder {
		if r, ok := byField[field]; ok {
			errs = append(errs, r.err)
			delete(byField, field)
		}
	}
	for _, r := range byField {
		errs = append(errs, r.err)
	}
	return errs
}

func toValidationError(desc gojsonschema.ResultError) (string, ValidationError) {
	field := desc.Field()
	if desc.Type() == "required" {
		if p, ok := desc.Details()["property"].(string); ok {
			field = p
		}
	}
	label := fieldLabels[field]
	if label == "" {
		label = field
	}

	ve := ValidationError{Field: field}
	switch desc.Type() {
	case "required":
		ve.Message = label + " is required"
		ve.Code = CodeRequiredFieldMissing
	case "string_gte":
		ve.Message = label + " is required"
		ve.Code = CodeMinLengthViolation
	case "string_lte":
		ve.Message = fmt.Sprintf("%s must be at most %v characters", label, desc.Details()["max"])
		ve.Code = CodeMaxLengthViolation
	case "enum":
		ve.Message = fmt.Sprintf("%s must be one of: %s", label, allowedValues(field))
		ve.Code = CodeInvalidEnumValue
	case "pattern":
		if field == "contactEmail" {
			ve.Message = "Invalid email format"
		} else {
			ve.Message = label + " must be a date in YYYY-MM-DD format"
		}
		ve.Code = CodePatternMismatch
	case "invalid_type":
		ve.Message = fmt.Sprintf("%s must be of type %v", label, desc.Details()["expected"])
		ve.Code = CodeInvalidType
	default:
		ve.Message = desc.Description()
		ve.Code = strings.ToUpper(desc.Type())
	}
	return field, ve
}

func allowedValues(field string) string {
	var values []string
	switch field {
	case "applicationStatus":
		for _, s := range models.ApplicationStatuses {
			values = append(values, string(s))
		}
	case "employmentType":
		for _, e := range models.EmploymentTypes {
			values = append(values, string(e))
		}
	}
	return strings.Join(values, ", ")
}

func decode(doc map[string]interface{}, target interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func documentError(err error) ValidationError {
	return ValidationError{
		Field:   "(root)",
		Message: err.Error(),
		Code:    CodeInvalidDocument,
	}
}
