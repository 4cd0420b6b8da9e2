package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// Struct validates a struct using its `validate` tags and returns a
// field -> message map suitable for a 400 response body.
func Struct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fieldErrors[strings.ToLower(fe.Field())] = fe.Field() + " failed on " + fe.Tag()
		}
		return fieldErrors
	}
	fieldErrors["_"] = err.Error()
	return fieldErrors
}

// ValidBloodTypes is the canonical ABO/Rh set
var ValidBloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// NormalizeBloodType uppercases and validates a blood type.
// Returns the normalized value and whether it is one of the 8 canonical types.
func NormalizeBloodType(bloodType string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(bloodType))
	for _, bt := range ValidBloodTypes {
		if normalized == bt {
			return normalized, true
		}
	}
	return normalized, false
}

// ValidUrgencies are the accepted blood request urgency levels
var ValidUrgencies = []string{"low", "normal", "high", "critical"}

// IsValidUrgency reports whether urgency is one of the accepted levels
func IsValidUrgency(urgency string) bool {
	for _, u := range ValidUrgencies {
		if urgency == u {
			return true
		}
	}
	return false
}

// ValidRequestStatuses are the blood request lifecycle states
var ValidRequestStatuses = []string{"open", "fulfilled", "cancelled", "expired"}

// IsValidRequestStatus reports whether status is a known lifecycle state
func IsValidRequestStatus(status string) bool {
	for _, s := range ValidRequestStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// ValidJobTypes is the fixed job category list
var ValidJobTypes = []string{
	"عام", "تقنية معلومات", "محاسبة", "تسويق", "مبيعات", "هندسة", "طب",
	"تعليم", "إدارة", "خدمة عملاء", "موارد بشرية", "قانون", "إعلام",
	"سياحة", "فندقة", "أمن", "نقل", "مقاولات", "صيانة", "أخرى",
}

// IsValidJobType reports whether t is one of the fixed job categories
func IsValidJobType(t string) bool {
	for _, v := range ValidJobTypes {
		if t == v {
			return true
		}
	}
	return false
}

// JobInput carries the fields checked by ValidateJobInput
type JobInput struct {
	Title       string
	Description string
	Type        string
	Salary      interface{}
	ExpiresAt   string
}

// ValidateJobInput validates a job posting submission and returns
// per-field error messages. An empty map means the input is valid.
func ValidateJobInput(in *JobInput) map[string]string {
	errs := make(map[string]string)

	// Length limits count characters, not bytes; Arabic letters are multi-byte.
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < 3 {
		errs["title"] = "العنوان مطلوب (3 أحرف على الأقل)"
	}

	if utf8.RuneCountInString(in.Description) > 5000 {
		errs["description"] = "الوصف طويل جداً (الحد الأقصى 5000 حرف)"
	}

	if in.ExpiresAt != "" {
		if _, err := ParseDate(in.ExpiresAt); err != nil {
			errs["expiresAt"] = "تاريخ الانتهاء غير صالح"
		}
	}

	if in.Salary != nil {
		switch in.Salary.(type) {
		case string, float64, int:
		default:
			errs["salary"] = "الراتب يجب أن يكون نص أو رقم"
		}
	}

	if in.Type != "" && !IsValidJobType(in.Type) {
		errs["type"] = "نوع الوظيفة غير صالح. الأنواع المسموحة: " + strings.Join(ValidJobTypes, ", ")
	}

	return errs
}

// dateLayouts covers the formats clients send for date fields
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a client-provided date string
func ParseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
