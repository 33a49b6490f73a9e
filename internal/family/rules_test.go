package family

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

type RulesSuite struct {
	suite.Suite
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func intp(v int) *int { return &v }

func head(name string, age int) MemberInfo {
	return MemberInfo{Name: name, Role: models.RoleHead, Age: intp(age)}
}

func (s *RulesSuite) TestHeadUniqueness() {
	s.Run("first head is allowed", func() {
		s.NoError(CheckRole(models.RoleHead, intp(50), nil))
	})

	s.Run("second head is rejected by name", func() {
		err := CheckRole(models.RoleHead, intp(45), []MemberInfo{head("Jane Doe", 50)})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal("Family already has a head member: Jane Doe", dErrors.Message(err))
	})
}

func (s *RulesSuite) TestSpouseUniqueness() {
	existing := []MemberInfo{
		head("Jane Doe", 50),
		{Name: "John Doe", Role: models.RoleSpouse, Age: intp(48)},
	}
	err := CheckRole(models.RoleSpouse, intp(47), existing)
	s.Error(err)
	s.Equal("Family already has a spouse member: John Doe", dErrors.Message(err))
}

func (s *RulesSuite) TestParentLimit() {
	existing := []MemberInfo{
		head("Jane Doe", 50),
		{Name: "Mohan Doe", Role: models.RoleParent, Age: intp(75)},
		{Name: "Meera Doe", Role: models.RoleParent, Age: intp(72)},
	}
	err := CheckRole(models.RoleParent, intp(78), existing)
	s.Error(err)
	s.Equal("Family already has maximum parents: Mohan Doe, Meera Doe", dErrors.Message(err))

	s.NoError(CheckRole(models.RoleParent, intp(78), existing[:2]))
}

func (s *RulesSuite) TestChildNeedsParentFigure() {
	s.Run("no figures rejects child", func() {
		existing := []MemberInfo{{Name: "Ravi Doe", Role: models.RoleSibling, Age: intp(20)}}
		err := CheckRole(models.RoleChild, intp(10), existing)
		s.Error(err)
		s.Equal("Family must have at least one parent figure (Head/Spouse/Parent) to add a child", dErrors.Message(err))
	})

	for _, role := range []models.FamilyRole{models.RoleHead, models.RoleSpouse, models.RoleParent} {
		s.Run("figure "+string(role)+" admits child", func() {
			existing := []MemberInfo{{Name: "Jane Doe", Role: role, Age: intp(50)}}
			s.NoError(CheckRole(models.RoleChild, intp(10), existing))
		})
	}
}

func (s *RulesSuite) TestSiblingNeedsHead() {
	err := CheckRole(models.RoleSibling, intp(30), nil)
	s.Error(err)
	s.Equal("Family must have a head member to add a sibling. Please add the family head first.", dErrors.Message(err))

	s.NoError(CheckRole(models.RoleSibling, intp(30), []MemberInfo{head("Jane Doe", 50)}))
}

func (s *RulesSuite) TestChildAgeOrdering() {
	existing := []MemberInfo{head("Jane Doe", 40)}

	s.Run("equal age rejected", func() {
		err := CheckRole(models.RoleChild, intp(40), existing)
		s.Error(err)
		s.Equal("Child's age (40) cannot be greater than or equal to parent's age (40, Jane Doe)", dErrors.Message(err))
	})

	s.Run("older child rejected", func() {
		err := CheckRole(models.RoleChild, intp(41), existing)
		s.Error(err)
	})

	s.Run("younger child accepted", func() {
		s.NoError(CheckRole(models.RoleChild, intp(15), existing))
	})
}

func (s *RulesSuite) TestParentAgeOrdering() {
	existing := []MemberInfo{
		head("Jane Doe", 40),
		{Name: "Asha Doe", Role: models.RoleChild, Age: intp(15)},
	}

	err := CheckRole(models.RoleParent, intp(15), existing)
	s.Error(err)
	s.Equal("Parent's age (15) cannot be less than or equal to child's age (15, Asha Doe)", dErrors.Message(err))

	s.NoError(CheckRole(models.RoleParent, intp(70), existing))
}

func (s *RulesSuite) TestUnknownAgesAreExempt() {
	existing := []MemberInfo{{Name: "Jane Doe", Role: models.RoleHead, Age: nil}}
	s.NoError(CheckRole(models.RoleChild, intp(90), existing))
	s.NoError(CheckRole(models.RoleChild, nil, existing))
}
