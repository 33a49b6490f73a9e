//go:build integration

package member_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"samajsetu/internal/member"
	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
	"samajsetu/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *member.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(member.EnsureSchema(s.ctx, s.pg.DB))
	s.store = member.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "members", "families", "samajs"))
}

func (s *PostgresStoreSuite) newMember(name string, role models.FamilyRole, age int) *models.Member {
	isHead := role == models.RoleHead
	return &models.Member{
		Name:               name,
		FamilyRole:         role,
		IsFamilyHead:       isHead,
		Gender:             "Female",
		Age:                &age,
		BloodGroup:         "O+",
		Mobile1:            "9876543210",
		Education:          "Graduate",
		Occupation:         "Business",
		MaritalStatus:      "Married",
		Address:            "12 Sample Street",
		Email:              "jane@example.com",
		BirthDate:          "01/01/1980",
		NativePlace:        "Gujarat",
		CurrentCity:        "Mumbai",
		LanguagesKnown:     "English, Hindi",
		Skills:             "Teaching",
		Hobbies:            "Reading",
		EmergencyContact:   "9123456780",
		RelationshipStatus: "Married",
		DietaryPreferences: "Vegetarian",
		ProfessionCategory: "Education",
	}
}

// registerFamily commits a head and returns the samaj and family it created.
func (s *PostgresStoreSuite) registerFamily(samajName, headName string, headAge int) (*models.Samaj, *models.Family) {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	samaj, err := tx.GetOrCreateSamaj(s.ctx, samajName)
	s.Require().NoError(err)

	fam, err := tx.CreateFamily(s.ctx, samaj.ID, headName+"'s Family")
	s.Require().NoError(err)

	head := s.newMember(headName, models.RoleHead, headAge)
	head.SamajID = samaj.ID
	head.FamilyID = fam.ID
	s.Require().NoError(tx.CreateMember(s.ctx, head))
	s.Require().NoError(tx.SetFamilyHead(s.ctx, fam.ID, head.ID))
	s.Require().NoError(tx.Commit())
	return samaj, fam
}

func (s *PostgresStoreSuite) TestGetOrCreateSamajIsIdempotent() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	first, err := tx.GetOrCreateSamaj(s.ctx, "Test Samaj")
	s.Require().NoError(err)
	second, err := tx.GetOrCreateSamaj(s.ctx, "Test Samaj")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Require().NoError(tx.Commit())
}

func (s *PostgresStoreSuite) TestRollbackLeavesNoRows() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)

	samaj, err := tx.GetOrCreateSamaj(s.ctx, "Test Samaj")
	s.Require().NoError(err)
	_, err = tx.CreateFamily(s.ctx, samaj.ID, "Doe's Family")
	s.Require().NoError(err)
	s.Require().NoError(tx.Rollback())

	summaries, err := s.store.ListSamajSummaries(s.ctx)
	s.Require().NoError(err)
	s.Empty(summaries)
}

func (s *PostgresStoreSuite) TestDuplicateFamilyIsConflict() {
	s.registerFamily("Test Samaj", "Jane Doe", 45)

	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	samaj, err := tx.GetOrCreateSamaj(s.ctx, "Test Samaj")
	s.Require().NoError(err)
	_, err = tx.CreateFamily(s.ctx, samaj.ID, "Jane Doe's Family")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

// Two heads racing to create the same family name must resolve to exactly
// one committed family; the loser sees a conflict, not a partial write.
func (s *PostgresStoreSuite) TestConcurrentHeadRegistrations() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	samaj, err := tx.GetOrCreateSamaj(s.ctx, "Test Samaj")
	s.Require().NoError(err)
	s.Require().NoError(tx.Commit())

	register := func() error {
		tx, err := s.store.Begin(s.ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		fam, err := tx.CreateFamily(s.ctx, samaj.ID, "Jane Doe's Family")
		if err != nil {
			return err
		}
		head := s.newMember("Jane Doe", models.RoleHead, 45)
		head.SamajID = samaj.ID
		head.FamilyID = fam.ID
		if err := tx.CreateMember(s.ctx, head); err != nil {
			return err
		}
		if err := tx.SetFamilyHead(s.ctx, fam.ID, head.ID); err != nil {
			return err
		}
		return tx.Commit()
	}

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { results <- register() }()
	}

	var conflicts, commits int
	for i := 0; i < 2; i++ {
		err := <-results
		if err == nil {
			commits++
			continue
		}
		s.True(dErrors.HasCode(err, dErrors.CodeConflict), "unexpected error: %v", err)
		conflicts++
	}
	s.Equal(1, commits)
	s.Equal(1, conflicts)

	families, err := s.store.ListFamilySummaries(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(families, 1)
	s.Equal(int64(1), families[0].MemberCount)
}

func (s *PostgresStoreSuite) TestFindFamilyByHead() {
	samaj, fam := s.registerFamily("Test Samaj", "Jane Doe", 45)

	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	s.Run("matches case-insensitively", func() {
		found, err := tx.FindFamilyByHead(s.ctx, samaj.ID, "jane doe")
		s.Require().NoError(err)
		s.Equal(fam.ID, found.ID)
	})

	s.Run("unknown head is not found", func() {
		_, err := tx.FindFamilyByHead(s.ctx, samaj.ID, "Nobody")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PostgresStoreSuite) TestListFamilyMembersInTx() {
	samaj, fam := s.registerFamily("Test Samaj", "Jane Doe", 45)

	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback()

	spouse := s.newMember("John Doe", models.RoleSpouse, 47)
	spouse.SamajID = samaj.ID
	spouse.FamilyID = fam.ID
	s.Require().NoError(tx.CreateMember(s.ctx, spouse))

	members, err := tx.ListFamilyMembers(s.ctx, fam.ID)
	s.Require().NoError(err)
	s.Len(members, 2)
	s.Require().NoError(tx.Commit())
}

func (s *PostgresStoreSuite) TestReadModels() {
	samaj, fam := s.registerFamily("Test Samaj", "Jane Doe", 45)

	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	child := s.newMember("Asha Doe", models.RoleChild, 12)
	child.SamajID = samaj.ID
	child.FamilyID = fam.ID
	s.Require().NoError(tx.CreateMember(s.ctx, child))
	s.Require().NoError(tx.Commit())

	s.Run("listings join samaj and family names", func() {
		listings, err := s.store.ListMembers(s.ctx, member.Filters{})
		s.Require().NoError(err)
		s.Require().Len(listings, 2)
		s.Equal("Test Samaj", listings[0].SamajName)
		s.Equal("Jane Doe's Family", listings[0].FamilyName)
	})

	s.Run("filters narrow the listing", func() {
		isHead := true
		listings, err := s.store.ListMembers(s.ctx, member.Filters{IsFamilyHead: &isHead})
		s.Require().NoError(err)
		s.Require().Len(listings, 1)
		s.Equal("Jane Doe", listings[0].Name)

		ageMax := 20
		listings, err = s.store.ListMembers(s.ctx, member.Filters{AgeMax: &ageMax})
		s.Require().NoError(err)
		s.Require().Len(listings, 1)
		s.Equal("Asha Doe", listings[0].Name)

		listings, err = s.store.ListMembers(s.ctx, member.Filters{Name: "asha"})
		s.Require().NoError(err)
		s.Require().Len(listings, 1)
	})

	s.Run("get member by id", func() {
		listing, err := s.store.GetMember(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("Jane Doe", listing.Name)

		_, err = s.store.GetMember(s.ctx, 999)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("samaj summaries count families and members", func() {
		summaries, err := s.store.ListSamajSummaries(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(summaries, 1)
		s.Equal(int64(1), summaries[0].FamilyCount)
		s.Equal(int64(2), summaries[0].MemberCount)
	})

	s.Run("family summaries name the head", func() {
		summaries, err := s.store.ListFamilySummaries(s.ctx, "")
		s.Require().NoError(err)
		s.Require().Len(summaries, 1)
		s.Require().NotNil(summaries[0].HeadName)
		s.Equal("Jane Doe", *summaries[0].HeadName)
		s.Equal(int64(2), summaries[0].MemberCount)
	})
}
