// Package models holds the persistent records of the census domain.
package models

import (
	"strings"
	"time"

	dErrors "samajsetu/pkg/domain-errors"
)

// FamilyRole is the position a member holds within their family.
type FamilyRole string

const (
	RoleHead    FamilyRole = "Head"
	RoleSpouse  FamilyRole = "Spouse"
	RoleChild   FamilyRole = "Child"
	RoleParent  FamilyRole = "Parent"
	RoleSibling FamilyRole = "Sibling"
	RoleOther   FamilyRole = "Other"
)

// ParseFamilyRole title-cases raw input and rejects anything outside the
// known role set.
func ParseFamilyRole(raw string) (FamilyRole, error) {
	role := FamilyRole(titleCase(strings.TrimSpace(raw)))
	switch role {
	case RoleHead, RoleSpouse, RoleChild, RoleParent, RoleSibling, RoleOther:
		return role, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "Please enter a valid role (Head/Spouse/Child/Parent/Sibling/Other)")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Samaj is a named community. It is the root grouping: families and members
// always belong to exactly one Samaj, and Samaj names are unique.
type Samaj struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Family is a household within one Samaj.
//
// Invariants:
//   - (SamajID, Name) is unique
//   - at most one member of the family has IsFamilyHead set
//   - HeadOfFamilyID is nil until the head member row exists
type Family struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	SamajID        int64     `json:"samaj_id"`
	HeadOfFamilyID *int64    `json:"head_of_family_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Member is one registered person. Optional attributes are pointers so a
// skipped answer persists as NULL rather than a sentinel string.
type Member struct {
	ID           int64      `json:"id"`
	SamajID      int64      `json:"samaj_id"`
	FamilyID     int64      `json:"family_id"`
	IsFamilyHead bool       `json:"is_family_head"`
	Name         string     `json:"name"`
	FamilyRole   FamilyRole `json:"family_role"`

	Gender             string  `json:"gender"`
	Age                *int    `json:"age"`
	BloodGroup         string  `json:"blood_group"`
	Mobile1            string  `json:"mobile_1"`
	Mobile2            *string `json:"mobile_2"`
	Education          string  `json:"education"`
	Occupation         string  `json:"occupation"`
	MaritalStatus      string  `json:"marital_status"`
	Address            string  `json:"address"`
	Email              string  `json:"email"`
	BirthDate          string  `json:"birth_date"`
	AnniversaryDate    *string `json:"anniversary_date"`
	NativePlace        string  `json:"native_place"`
	CurrentCity        string  `json:"current_city"`
	LanguagesKnown     string  `json:"languages_known"`
	Skills             string  `json:"skills"`
	Hobbies            string  `json:"hobbies"`
	EmergencyContact   string  `json:"emergency_contact"`
	RelationshipStatus string  `json:"relationship_status"`
	MedicalConditions  *string `json:"medical_conditions"`
	DietaryPreferences string  `json:"dietary_preferences"`
	SocialMediaHandles *string `json:"social_media_handles"`
	ProfessionCategory string  `json:"profession_category"`
	VolunteerInterests *string `json:"volunteer_interests"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the internal consistency of a member record before it is
// handed to a store.
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "member name is required")
	}
	if m.FamilyRole == "" {
		return dErrors.New(dErrors.CodeValidation, "family role is required")
	}
	if m.FamilyRole == RoleHead && !m.IsFamilyHead {
		return dErrors.New(dErrors.CodeInvariantViolation, "member with Head role must be marked as family head")
	}
	if m.FamilyRole != RoleHead && m.IsFamilyHead {
		return dErrors.New(dErrors.CodeInvariantViolation, "only the Head role may be marked as family head")
	}
	return nil
}
