// Package seed generates realistic sample families for local development
// and demos. Generated households always satisfy the relationship rules:
// one head, at most one spouse, children younger than every parent figure.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"samajsetu/internal/member"
	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

var (
	samajNames = []string{
		"Bhram", "Sindhi", "Maharashtra Mandal", "Vaishnav Vanik", "Lohana",
		"Bhatia", "Jain", "Patel", "Connected", "Marwari",
	}
	bloodGroups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}
	firstNames  = []string{
		"Raj", "Amit", "Priya", "Neha", "Suresh", "Ramesh", "Sanjay", "Vijay",
		"Meera", "Geeta", "Rakesh", "Mukesh", "Seema", "Reena", "Anil", "Sunil",
		"Deepa", "Rekha", "Mohan", "Sohan",
	}
	lastNames = []string{
		"Patel", "Shah", "Mehta", "Desai", "Joshi", "Bhatt", "Trivedi", "Pandya",
		"Vyas", "Pathak", "Kumar", "Singh", "Sharma", "Verma", "Gupta",
		"Malhotra", "Kapoor", "Khanna", "Chopra", "Reddy",
	}
	educations  = []string{"Graduate", "Post Graduate", "PhD", "High School", "Under Graduate"}
	occupations = []string{"Business", "Service", "Professional", "Student", "Retired"}
	natives     = []string{"Gujarat", "Maharashtra", "Rajasthan", "Delhi", "Karnataka"}
	cities      = []string{"Mumbai", "Delhi", "Bangalore", "Ahmedabad", "Pune"}
	languages   = []string{"English", "Hindi", "Gujarati", "Marathi", "Sanskrit"}
	skills      = []string{"Computer", "Management", "Teaching", "Writing", "Public Speaking"}
	hobbies     = []string{"Reading", "Music", "Travel", "Cooking", "Photography"}
	diets       = []string{"Vegetarian", "Jain", "Vegan"}
	professions = []string{"IT", "Healthcare", "Education", "Business", "Finance"}
	volunteer   = []string{"Community Service", "Education", "Healthcare", "Environment"}
)

// Generator populates a member store with sample families.
type Generator struct {
	store  member.Store
	rng    *rand.Rand
	logger *slog.Logger
}

func NewGenerator(store member.Store, seed int64, logger *slog.Logger) *Generator {
	return &Generator{
		store:  store,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Generate creates familyCount households and returns how many members were
// inserted. Families whose name collides with an existing one are skipped.
func (g *Generator) Generate(ctx context.Context, familyCount int) (int, error) {
	created := 0
	for i := 0; i < familyCount; i++ {
		n, err := g.generateFamily(ctx)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeConflict) {
				continue
			}
			return created, err
		}
		created += n
	}
	g.logger.InfoContext(ctx, "sample data generated", "families", familyCount, "members", created)
	return created, nil
}

func (g *Generator) generateFamily(ctx context.Context) (n int, err error) {
	tx, err := g.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	lastName := pick(g.rng, lastNames)
	samajName := pick(g.rng, samajNames)
	headAge := 40 + g.rng.Intn(31)
	head := g.member(lastName, headAge, models.RoleHead)

	samaj, err := tx.GetOrCreateSamaj(ctx, samajName)
	if err != nil {
		return 0, err
	}
	fam, err := tx.CreateFamily(ctx, samaj.ID, head.Name+"'s Family")
	if err != nil {
		return 0, err
	}

	head.SamajID = samaj.ID
	head.FamilyID = fam.ID
	head.IsFamilyHead = true
	if err := tx.CreateMember(ctx, head); err != nil {
		return 0, err
	}
	if err := tx.SetFamilyHead(ctx, fam.ID, head.ID); err != nil {
		return 0, err
	}
	n = 1

	if g.rng.Float64() < 0.7 {
		spouseAge := headAge - 3 + g.rng.Intn(7)
		if spouseAge < 25 {
			spouseAge = 25
		}
		spouse := g.member(lastName, spouseAge, models.RoleSpouse)
		spouse.SamajID = samaj.ID
		spouse.FamilyID = fam.ID
		if err := tx.CreateMember(ctx, spouse); err != nil {
			return 0, err
		}
		n++
	}

	// Children stay well below the youngest possible parent age.
	for children := g.rng.Intn(4); children > 0; children-- {
		childAge := 1 + g.rng.Intn(headAge-25)
		if childAge >= headAge-18 {
			childAge = headAge - 19
		}
		child := g.member(lastName, childAge, models.RoleChild)
		child.SamajID = samaj.ID
		child.FamilyID = fam.ID
		if err := tx.CreateMember(ctx, child); err != nil {
			return 0, err
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func (g *Generator) member(lastName string, age int, role models.FamilyRole) *models.Member {
	first := pick(g.rng, firstNames)
	initial := string(rune('A' + g.rng.Intn(26)))
	name := fmt.Sprintf("%s %s %s", first, initial, lastName)
	gender := "Male"
	if g.rng.Intn(2) == 0 {
		gender = "Female"
	}

	m := &models.Member{
		Name:               name,
		FamilyRole:         role,
		Gender:             gender,
		Age:                &age,
		BloodGroup:         pick(g.rng, bloodGroups),
		Mobile1:            g.phone(),
		Education:          pick(g.rng, educations),
		Occupation:         pick(g.rng, occupations),
		MaritalStatus:      maritalStatus(role),
		Address:            fmt.Sprintf("%d, Sample Street, %s", 1+g.rng.Intn(999), pick(g.rng, cities)),
		Email:              strings.ToLower(first) + "." + strings.ToLower(lastName) + "@example.com",
		BirthDate:          g.birthDate(age),
		NativePlace:        pick(g.rng, natives),
		CurrentCity:        pick(g.rng, cities),
		LanguagesKnown:     sample(g.rng, languages, 2+g.rng.Intn(3)),
		Skills:             sample(g.rng, skills, 1+g.rng.Intn(3)),
		Hobbies:            sample(g.rng, hobbies, 1+g.rng.Intn(3)),
		EmergencyContact:   g.phone(),
		RelationshipStatus: maritalStatus(role),
		DietaryPreferences: pick(g.rng, diets),
		ProfessionCategory: pick(g.rng, professions),
	}

	if g.rng.Float64() > 0.5 {
		mobile2 := g.phone()
		m.Mobile2 = &mobile2
	}
	if role == models.RoleHead || role == models.RoleSpouse {
		anniversary := g.birthDate(g.rng.Intn(20) + 1)
		m.AnniversaryDate = &anniversary
	}
	if g.rng.Float64() < 0.3 {
		condition := pick(g.rng, []string{"None", "Diabetes", "Hypertension"})
		m.MedicalConditions = &condition
	}
	handle := "@" + strings.ToLower(first) + "_" + strings.ToLower(lastName)
	m.SocialMediaHandles = &handle
	interests := sample(g.rng, volunteer, 1+g.rng.Intn(3))
	m.VolunteerInterests = &interests
	return m
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+91%d", 7000000000+g.rng.Int63n(3000000000))
}

func (g *Generator) birthDate(age int) string {
	d := time.Now().AddDate(-age, 0, -g.rng.Intn(365))
	return d.Format("02/01/2006")
}

func maritalStatus(role models.FamilyRole) string {
	if role == models.RoleChild {
		return "Single"
	}
	return "Married"
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func sample(rng *rand.Rand, values []string, n int) string {
	idx := rng.Perm(len(values))
	if n > len(values) {
		n = len(values)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, values[i])
	}
	return strings.Join(out, ", ")
}
