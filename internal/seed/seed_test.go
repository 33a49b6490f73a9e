package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"samajsetu/internal/family"
	"samajsetu/internal/member"
	"samajsetu/internal/models"
	"samajsetu/pkg/testutil"
)

type SeedSuite struct {
	suite.Suite
	ctx   context.Context
	store *member.InMemoryStore
}

func TestSeedSuite(t *testing.T) {
	suite.Run(t, new(SeedSuite))
}

func (s *SeedSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = member.NewInMemory()
}

func (s *SeedSuite) TestGenerateCreatesMembers() {
	gen := NewGenerator(s.store, 42, testutil.NewLogger())
	created, err := gen.Generate(s.ctx, 10)
	s.Require().NoError(err)
	s.Positive(created)

	listings, err := s.store.ListMembers(s.ctx, member.Filters{})
	s.Require().NoError(err)
	s.Len(listings, created)
}

func (s *SeedSuite) TestGeneratedFamiliesObeyRules() {
	gen := NewGenerator(s.store, 7, testutil.NewLogger())
	_, err := gen.Generate(s.ctx, 15)
	s.Require().NoError(err)

	families, err := s.store.ListFamilySummaries(s.ctx, "")
	s.Require().NoError(err)
	s.NotEmpty(families)

	for _, f := range families {
		members, err := s.store.ListFamilyMembers(s.ctx, f.ID)
		s.Require().NoError(err)
		s.Require().NotEmpty(members)

		heads := 0
		var infos []family.MemberInfo
		for _, m := range members {
			if m.FamilyRole == models.RoleHead {
				heads++
				s.True(m.IsFamilyHead)
			}
			s.Require().NotNil(m.Age, "seeded members always carry an age")
			s.Require().NoError(m.Validate())
			infos = append(infos, family.MemberInfo{Name: m.Name, Role: m.FamilyRole, Age: m.Age})
		}
		s.Equal(1, heads, "family %q must have exactly one head", f.Name)

		// Every child must be admissible against the rest of the household.
		for i, m := range members {
			if m.FamilyRole != models.RoleChild {
				continue
			}
			others := make([]family.MemberInfo, 0, len(infos)-1)
			others = append(others, infos[:i]...)
			others = append(others, infos[i+1:]...)
			s.NoError(family.CheckRole(models.RoleChild, m.Age, others))
		}
	}
}

func (s *SeedSuite) TestGenerateIsDeterministic() {
	genA := NewGenerator(member.NewInMemory(), 99, testutil.NewLogger())
	createdA, err := genA.Generate(s.ctx, 5)
	s.Require().NoError(err)

	genB := NewGenerator(s.store, 99, testutil.NewLogger())
	createdB, err := genB.Generate(s.ctx, 5)
	s.Require().NoError(err)

	s.Equal(createdA, createdB)
}
