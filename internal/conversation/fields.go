package conversation

import (
	"strings"

	"samajsetu/internal/models"
)

// Field names and metadata for every question in the flow. The order of
// fieldSequence is the order questions are asked; each session step in the
// collecting range indexes into it.
const (
	FieldSamaj              = "samaj"
	FieldName               = "name"
	FieldFamilyRole         = "family_role"
	FieldFamilyHead         = "family_head"
	FieldGender             = "gender"
	FieldAge                = "age"
	FieldBloodGroup         = "blood_group"
	FieldMobile1            = "mobile_1"
	FieldMobile2            = "mobile_2"
	FieldEducation          = "education"
	FieldOccupation         = "occupation"
	FieldMaritalStatus      = "marital_status"
	FieldAddress            = "address"
	FieldEmail              = "email"
	FieldBirthDate          = "birth_date"
	FieldAnniversaryDate    = "anniversary_date"
	FieldNativePlace        = "native_place"
	FieldCurrentCity        = "current_city"
	FieldLanguagesKnown     = "languages_known"
	FieldSkills             = "skills"
	FieldHobbies            = "hobbies"
	FieldEmergencyContact   = "emergency_contact"
	FieldRelationshipStatus = "relationship_status"
	FieldMedicalConditions  = "medical_conditions"
	FieldDietaryPreferences = "dietary_preferences"
	FieldSocialMediaHandles = "social_media_handles"
	FieldProfessionCategory = "profession_category"
	FieldVolunteerInterests = "volunteer_interests"
)

// Field describes one question of the flow.
type Field struct {
	Key      string
	Prompt   string
	Optional bool
}

// Label renders a field key for user display ("blood_group" -> "Blood Group").
func (f Field) Label() string {
	return labelFor(f.Key)
}

func labelFor(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// openingFields are asked of everyone before the flow branches on role.
var openingFields = []Field{
	{Key: FieldSamaj, Prompt: "Please enter your Samaj name:"},
	{Key: FieldName, Prompt: "Please enter your full name:"},
	{Key: FieldFamilyRole, Prompt: "Please enter your family role (Head/Spouse/Child/Parent/Sibling/Other):"},
}

// familyHeadField is only asked of non-Head roles; a Head anchors the family
// themselves, so their own name is recorded as family head automatically.
var familyHeadField = Field{Key: FieldFamilyHead, Prompt: "Please enter your family head's name:"}

// detailFields follow the role branch in fixed order.
var detailFields = []Field{
	{Key: FieldGender, Prompt: "Please enter your gender (Male/Female/Other):"},
	{Key: FieldAge, Prompt: "Please enter your age:"},
	{Key: FieldBloodGroup, Prompt: "Please enter your blood group (A+/A-/B+/B-/AB+/AB-/O+/O-):"},
	{Key: FieldMobile1, Prompt: "Please enter your primary mobile number (10 digits):"},
	{Key: FieldMobile2, Prompt: "Please enter your secondary mobile number (10 digits or type 'skip'):", Optional: true},
	{Key: FieldEducation, Prompt: "Please enter your education:"},
	{Key: FieldOccupation, Prompt: "Please enter your occupation:"},
	{Key: FieldMaritalStatus, Prompt: "Please enter your marital status (Single/Married/Divorced/Widowed):"},
	{Key: FieldAddress, Prompt: "Please enter your address:"},
	{Key: FieldEmail, Prompt: "Please enter your email:"},
	{Key: FieldBirthDate, Prompt: "Please enter your birth date (DD/MM/YYYY):"},
	{Key: FieldAnniversaryDate, Prompt: "Please enter your anniversary date (DD/MM/YYYY or type 'skip'):", Optional: true},
	{Key: FieldNativePlace, Prompt: "Please enter your native place:"},
	{Key: FieldCurrentCity, Prompt: "Please enter your current city:"},
	{Key: FieldLanguagesKnown, Prompt: "Please enter languages known (comma-separated):"},
	{Key: FieldSkills, Prompt: "Please enter your skills (comma-separated):"},
	{Key: FieldHobbies, Prompt: "Please enter your hobbies (comma-separated):"},
	{Key: FieldEmergencyContact, Prompt: "Please enter emergency contact number (10 digits):"},
	{Key: FieldRelationshipStatus, Prompt: "Please enter your relationship status (Single/Married/Divorced/Widowed/Other):"},
	{Key: FieldMedicalConditions, Prompt: "Please enter any medical conditions (or type 'skip'):", Optional: true},
	{Key: FieldDietaryPreferences, Prompt: "Please enter your dietary preferences:"},
	{Key: FieldSocialMediaHandles, Prompt: "Please enter your social media handles (or type 'skip'):", Optional: true},
	{Key: FieldProfessionCategory, Prompt: "Please enter your profession category:"},
	{Key: FieldVolunteerInterests, Prompt: "Please enter your volunteer interests (or type 'skip'):", Optional: true},
}

// fieldSequence returns the complete question list for a session. Until the
// role is answered only the opening fields are ever indexed, so the head
// variant is safe as a default.
func fieldSequence(role models.FamilyRole) []Field {
	seq := make([]Field, 0, len(openingFields)+1+len(detailFields))
	seq = append(seq, openingFields...)
	if role != "" && role != models.RoleHead {
		seq = append(seq, familyHeadField)
	}
	seq = append(seq, detailFields...)
	return seq
}

// fieldByKey resolves a field definition from its key, searching every field
// the flow can ever ask.
func fieldByKey(key string) (Field, bool) {
	if key == FieldFamilyHead {
		return familyHeadField, true
	}
	for _, f := range openingFields {
		if f.Key == key {
			return f, true
		}
	}
	for _, f := range detailFields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
