package conversation

import (
	"strconv"
	"strings"

	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

// skipLiteral marks an optional field as intentionally left blank. On
// required fields it is treated as ordinary text and fails the emptiness
// checks like anything else would.
const skipLiteral = "skip"

// Validate applies the single rule each field has. It returns the normalized
// value, whether the field was skipped, or a user-facing validation error.
// Validation is stateless and idempotent: feeding an accepted value back in
// returns it unchanged.
func Validate(field, raw string) (value string, skipped bool, err error) {
	trimmed := strings.TrimSpace(raw)

	if f, ok := fieldByKey(field); ok && f.Optional && strings.EqualFold(trimmed, skipLiteral) {
		return "", true, nil
	}

	switch field {
	case FieldGender:
		return oneOf(trimmed, []string{"Male", "Female", "Other"},
			"Please enter Male, Female, or Other")

	case FieldAge:
		n, convErr := strconv.Atoi(trimmed)
		if convErr != nil || n < 0 || n > 120 {
			return "", false, invalid("Please enter a valid age between 0 and 120")
		}
		return strconv.Itoa(n), false, nil

	case FieldBloodGroup:
		group := strings.ToUpper(strings.ReplaceAll(trimmed, " ", ""))
		for _, valid := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
			if group == valid {
				return group, false, nil
			}
		}
		return "", false, invalid("Please enter a valid blood group (A+, A-, B+, B-, AB+, AB-, O+, O-)")

	case FieldMobile1:
		return digits(trimmed, "Please enter a valid 10-digit mobile number")

	case FieldMobile2:
		return digits(trimmed, "Please enter a valid 10-digit mobile number or type 'skip'")

	case FieldEmergencyContact:
		return digits(trimmed, "Please enter a valid 10-digit contact number")

	case FieldEmail:
		at := strings.Index(trimmed, "@")
		if at < 0 || !strings.Contains(trimmed[at+1:], ".") {
			return "", false, invalid("Please enter a valid email address")
		}
		return trimmed, false, nil

	case FieldBirthDate:
		if len(strings.Split(trimmed, "/")) != 3 {
			return "", false, invalid("Please enter date in DD/MM/YYYY format")
		}
		return trimmed, false, nil

	case FieldAnniversaryDate:
		if len(strings.Split(trimmed, "/")) != 3 {
			return "", false, invalid("Please enter date in DD/MM/YYYY format or type 'skip'")
		}
		return trimmed, false, nil

	case FieldFamilyRole:
		role, roleErr := models.ParseFamilyRole(trimmed)
		if roleErr != nil {
			return "", false, roleErr
		}
		return string(role), false, nil

	case FieldFamilyHead:
		if trimmed == "" {
			return "", false, invalid("Please enter the family head's name")
		}
		return trimmed, false, nil

	case FieldMaritalStatus:
		return oneOf(trimmed, []string{"Single", "Married", "Divorced", "Widowed"},
			"Please enter a valid status (Single, Married, Divorced, Widowed)")

	case FieldRelationshipStatus:
		return oneOf(trimmed, []string{"Single", "Married", "Divorced", "Widowed", "Other"},
			"Please enter a valid status (Single, Married, Divorced, Widowed, Other)")

	case FieldSamaj:
		if len(trimmed) < 2 {
			return "", false, invalid("Please enter a valid Samaj name (at least 2 characters)")
		}
		return trimmed, false, nil

	case FieldName:
		if len(trimmed) < 2 {
			return "", false, invalid("Please enter your full name (at least 2 characters)")
		}
		return trimmed, false, nil

	case FieldMedicalConditions:
		return freeText(trimmed, "Please enter your medical conditions or type 'skip'")

	case FieldSocialMediaHandles:
		return freeText(trimmed, "Please enter your social media handles or type 'skip'")

	case FieldVolunteerInterests:
		return freeText(trimmed, "Please enter your volunteer interests or type 'skip'")

	default:
		// Remaining fields are plain required text.
		return freeText(trimmed, "This field cannot be empty. Please enter a value:")
	}
}

func invalid(message string) error {
	return dErrors.New(dErrors.CodeValidation, message)
}

// oneOf accepts any casing of the allowed values and normalizes to the
// canonical (title-cased) spelling.
func oneOf(value string, allowed []string, message string) (string, bool, error) {
	for _, v := range allowed {
		if strings.EqualFold(value, v) {
			return v, false, nil
		}
	}
	return "", false, invalid(message)
}

func digits(value, message string) (string, bool, error) {
	if len(value) != 10 {
		return "", false, invalid(message)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", false, invalid(message)
		}
	}
	return value, false, nil
}

func freeText(value, message string) (string, bool, error) {
	if value == "" {
		return "", false, invalid(message)
	}
	return value, false, nil
}
