// Package family holds the pure relationship rules shared between the live
// conversation and the persistence transaction. The caller decides which
// member list is authoritative; commit-time checks must pass the freshly
// queried list, never a session's cached view.
package family

import (
	"fmt"
	"strings"

	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

// MemberInfo is the slice of a committed member the rules care about.
type MemberInfo struct {
	Name string
	Role models.FamilyRole
	Age  *int
}

// parentFigure reports whether a role counts as a parent figure for the
// child/age rules.
func parentFigure(role models.FamilyRole) bool {
	return role == models.RoleHead || role == models.RoleSpouse || role == models.RoleParent
}

// CheckRole validates that a new member with the given role and age may join
// a family whose committed members are listed in existing. Violations carry
// CodeInvariantViolation and name the conflicting member where there is one.
func CheckRole(role models.FamilyRole, age *int, existing []MemberInfo) error {
	byRole := make(map[models.FamilyRole][]MemberInfo)
	for _, m := range existing {
		byRole[m.Role] = append(byRole[m.Role], m)
	}

	switch role {
	case models.RoleHead:
		if heads := byRole[models.RoleHead]; len(heads) > 0 {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"Family already has a head member: %s", heads[0].Name)
		}
	case models.RoleSpouse:
		if spouses := byRole[models.RoleSpouse]; len(spouses) > 0 {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"Family already has a spouse member: %s", spouses[0].Name)
		}
	case models.RoleParent:
		if parents := byRole[models.RoleParent]; len(parents) >= 2 {
			names := make([]string, len(parents))
			for i, p := range parents {
				names[i] = p.Name
			}
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"Family already has maximum parents: %s", strings.Join(names, ", "))
		}
	case models.RoleChild:
		hasFigure := false
		for r := range byRole {
			if parentFigure(r) {
				hasFigure = true
				break
			}
		}
		if !hasFigure {
			return dErrors.New(dErrors.CodeInvariantViolation,
				"Family must have at least one parent figure (Head/Spouse/Parent) to add a child")
		}
	case models.RoleSibling:
		if len(byRole[models.RoleHead]) == 0 {
			return dErrors.New(dErrors.CodeInvariantViolation,
				"Family must have a head member to add a sibling. Please add the family head first.")
		}
	}

	return checkAges(role, age, existing)
}

// checkAges enforces strict age ordering between children and parent
// figures. Members with unknown ages are exempt.
func checkAges(role models.FamilyRole, age *int, existing []MemberInfo) error {
	if age == nil {
		return nil
	}

	if role == models.RoleChild {
		for _, m := range existing {
			if parentFigure(m.Role) && m.Age != nil && *m.Age <= *age {
				return dErrors.Newf(dErrors.CodeInvariantViolation,
					"Child's age (%d) cannot be greater than or equal to parent's age (%d, %s)",
					*age, *m.Age, m.Name)
			}
		}
	}

	if role == models.RoleParent {
		for _, m := range existing {
			if m.Role == models.RoleChild && m.Age != nil && *m.Age >= *age {
				return dErrors.Newf(dErrors.CodeInvariantViolation,
					"Parent's age (%d) cannot be less than or equal to child's age (%d, %s)",
					*age, *m.Age, m.Name)
			}
		}
	}

	return nil
}

// String renders a MemberInfo for log lines.
func (m MemberInfo) String() string {
	if m.Age != nil {
		return fmt.Sprintf("%s (%s, %d)", m.Name, m.Role, *m.Age)
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Role)
}
