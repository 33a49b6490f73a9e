package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

// PostgresStore persists members in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed member store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin member tx: %w", err)
	}
	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) GetOrCreateSamaj(ctx context.Context, name string) (*models.Samaj, error) {
	var samaj models.Samaj
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO samajs (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = samajs.updated_at
		RETURNING id, name, created_at, updated_at`, name,
	).Scan(&samaj.ID, &samaj.Name, &samaj.CreatedAt, &samaj.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create samaj: %w", err)
	}
	return &samaj, nil
}

func (t *postgresTx) CreateFamily(ctx context.Context, samajID int64, name string) (*models.Family, error) {
	var family models.Family
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO families (name, samaj_id) VALUES ($1, $2)
		RETURNING id, name, samaj_id, head_of_family_id, created_at, updated_at`, name, samajID,
	).Scan(&family.ID, &family.Name, &family.SamajID, &family.HeadOfFamilyID, &family.CreatedAt, &family.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, dErrors.New(dErrors.CodeConflict, "family already exists")
		}
		return nil, fmt.Errorf("create family: %w", err)
	}
	return &family, nil
}

func (t *postgresTx) FindFamilyByHead(ctx context.Context, samajID int64, headName string) (*models.Family, error) {
	var family models.Family
	err := t.tx.QueryRowContext(ctx, `
		SELECT f.id, f.name, f.samaj_id, f.head_of_family_id, f.created_at, f.updated_at
		FROM families f
		JOIN members m ON m.family_id = f.id AND m.is_family_head
		WHERE f.samaj_id = $1 AND lower(m.name) = lower($2)
		LIMIT 1`, samajID, headName,
	).Scan(&family.ID, &family.Name, &family.SamajID, &family.HeadOfFamilyID, &family.CreatedAt, &family.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "family head not found")
		}
		return nil, fmt.Errorf("find family by head: %w", err)
	}
	return &family, nil
}

func (t *postgresTx) ListFamilyMembers(ctx context.Context, familyID int64) ([]models.Member, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members m WHERE m.family_id = $1 ORDER BY m.id`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := scanMember(rows, &m); err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family members: %w", err)
	}
	return members, nil
}

func (t *postgresTx) CreateMember(ctx context.Context, m *models.Member) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO members (
			samaj_id, family_id, is_family_head, name, family_role,
			gender, age, blood_group, mobile_1, mobile_2,
			education, occupation, marital_status, address, email,
			birth_date, anniversary_date, native_place, current_city, languages_known,
			skills, hobbies, emergency_contact, relationship_status, medical_conditions,
			dietary_preferences, social_media_handles, profession_category, volunteer_interests
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29
		)
		RETURNING id, created_at, updated_at`,
		m.SamajID, m.FamilyID, m.IsFamilyHead, m.Name, string(m.FamilyRole),
		m.Gender, m.Age, m.BloodGroup, m.Mobile1, m.Mobile2,
		m.Education, m.Occupation, m.MaritalStatus, m.Address, m.Email,
		m.BirthDate, m.AnniversaryDate, m.NativePlace, m.CurrentCity, m.LanguagesKnown,
		m.Skills, m.Hobbies, m.EmergencyContact, m.RelationshipStatus, m.MedicalConditions,
		m.DietaryPreferences, m.SocialMediaHandles, m.ProfessionCategory, m.VolunteerInterests,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (t *postgresTx) SetFamilyHead(ctx context.Context, familyID, memberID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE families SET head_of_family_id = $1, updated_at = now() WHERE id = $2`,
		memberID, familyID)
	if err != nil {
		return fmt.Errorf("set family head: %w", err)
	}
	return nil
}

func (t *postgresTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit member tx: %w", err)
	}
	return nil
}

func (t *postgresTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback member tx: %w", err)
	}
	return nil
}

const memberColumns = `
	m.id, m.samaj_id, m.family_id, m.is_family_head, m.name, m.family_role,
	m.gender, m.age, m.blood_group, m.mobile_1, m.mobile_2,
	m.education, m.occupation, m.marital_status, m.address, m.email,
	m.birth_date, m.anniversary_date, m.native_place, m.current_city, m.languages_known,
	m.skills, m.hobbies, m.emergency_contact, m.relationship_status, m.medical_conditions,
	m.dietary_preferences, m.social_media_handles, m.profession_category, m.volunteer_interests,
	m.created_at, m.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner, m *models.Member) error {
	return row.Scan(
		&m.ID, &m.SamajID, &m.FamilyID, &m.IsFamilyHead, &m.Name, &m.FamilyRole,
		&m.Gender, &m.Age, &m.BloodGroup, &m.Mobile1, &m.Mobile2,
		&m.Education, &m.Occupation, &m.MaritalStatus, &m.Address, &m.Email,
		&m.BirthDate, &m.AnniversaryDate, &m.NativePlace, &m.CurrentCity, &m.LanguagesKnown,
		&m.Skills, &m.Hobbies, &m.EmergencyContact, &m.RelationshipStatus, &m.MedicalConditions,
		&m.DietaryPreferences, &m.SocialMediaHandles, &m.ProfessionCategory, &m.VolunteerInterests,
		&m.CreatedAt, &m.UpdatedAt,
	)
}

func (s *PostgresStore) ListMembers(ctx context.Context, f Filters) ([]models.MemberListing, error) {
	query := `SELECT ` + memberColumns + `, s.name, f.name
		FROM members m
		JOIN samajs s ON s.id = m.samaj_id
		JOIN families f ON f.id = m.family_id`

	where, args := buildMemberFilters(f)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	listings := make([]models.MemberListing, 0)
	for rows.Next() {
		var l models.MemberListing
		if err := scanListing(rows, &l); err != nil {
			return nil, fmt.Errorf("scan member listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return listings, nil
}

func scanListing(row rowScanner, l *models.MemberListing) error {
	return row.Scan(
		&l.ID, &l.SamajID, &l.FamilyID, &l.IsFamilyHead, &l.Name, &l.FamilyRole,
		&l.Gender, &l.Age, &l.BloodGroup, &l.Mobile1, &l.Mobile2,
		&l.Education, &l.Occupation, &l.MaritalStatus, &l.Address, &l.Email,
		&l.BirthDate, &l.AnniversaryDate, &l.NativePlace, &l.CurrentCity, &l.LanguagesKnown,
		&l.Skills, &l.Hobbies, &l.EmergencyContact, &l.RelationshipStatus, &l.MedicalConditions,
		&l.DietaryPreferences, &l.SocialMediaHandles, &l.ProfessionCategory, &l.VolunteerInterests,
		&l.CreatedAt, &l.UpdatedAt,
		&l.SamajName, &l.FamilyName,
	)
}

func buildMemberFilters(f Filters) (where []string, args []any) {
	like := func(column, value string) {
		args = append(args, "%"+value+"%")
		where = append(where, column+" ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.SamajName != "" {
		like("s.name", f.SamajName)
	}
	if f.FamilyName != "" {
		like("f.name", f.FamilyName)
	}
	if f.Name != "" {
		like("m.name", f.Name)
	}
	if f.Role != "" {
		args = append(args, f.Role)
		where = append(where, "m.family_role = $"+strconv.Itoa(len(args)))
	}
	if f.BloodGroup != "" {
		args = append(args, f.BloodGroup)
		where = append(where, "upper(m.blood_group) = upper($"+strconv.Itoa(len(args))+")")
	}
	if f.City != "" {
		like("m.current_city", f.City)
	}
	if f.Profession != "" {
		like("m.profession_category", f.Profession)
	}
	if f.AgeMin != nil {
		args = append(args, *f.AgeMin)
		where = append(where, "m.age >= $"+strconv.Itoa(len(args)))
	}
	if f.AgeMax != nil {
		args = append(args, *f.AgeMax)
		where = append(where, "m.age <= $"+strconv.Itoa(len(args)))
	}
	if f.IsFamilyHead != nil {
		args = append(args, *f.IsFamilyHead)
		where = append(where, "m.is_family_head = $"+strconv.Itoa(len(args)))
	}
	return where, args
}

func (s *PostgresStore) GetMember(ctx context.Context, id int64) (*models.MemberListing, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+`, s.name, f.name
		FROM members m
		JOIN samajs s ON s.id = m.samaj_id
		JOIN families f ON f.id = m.family_id
		WHERE m.id = $1`, id)

	var l models.MemberListing
	if err := scanListing(row, &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &l, nil
}

func (s *PostgresStore) ListSamajSummaries(ctx context.Context) ([]models.SamajSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, s.updated_at,
			(SELECT count(*) FROM families f WHERE f.samaj_id = s.id),
			(SELECT count(*) FROM members m WHERE m.samaj_id = s.id)
		FROM samajs s
		ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("list samaj summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.SamajSummary, 0)
	for rows.Next() {
		var sum models.SamajSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.CreatedAt, &sum.UpdatedAt,
			&sum.FamilyCount, &sum.MemberCount); err != nil {
			return nil, fmt.Errorf("scan samaj summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samaj summaries: %w", err)
	}
	return summaries, nil
}

func (s *PostgresStore) ListFamilySummaries(ctx context.Context, samajName string) ([]models.FamilySummary, error) {
	query := `
		SELECT f.id, f.name, s.name,
			(SELECT m.name FROM members m WHERE m.id = f.head_of_family_id),
			(SELECT count(*) FROM members m WHERE m.family_id = f.id),
			f.created_at
		FROM families f
		JOIN samajs s ON s.id = f.samaj_id`
	var args []any
	if samajName != "" {
		args = append(args, "%"+samajName+"%")
		query += " WHERE s.name ILIKE $1"
	}
	query += " ORDER BY s.name, f.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list family summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.FamilySummary, 0)
	for rows.Next() {
		var sum models.FamilySummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.SamajName,
			&sum.HeadName, &sum.MemberCount, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan family summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family summaries: %w", err)
	}
	return summaries, nil
}

func (s *PostgresStore) ListFamilyMembers(ctx context.Context, familyID int64) ([]models.MemberListing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+`, s.name, f.name
		FROM members m
		JOIN samajs s ON s.id = m.samaj_id
		JOIN families f ON f.id = m.family_id
		WHERE m.family_id = $1
		ORDER BY m.id`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	listings := make([]models.MemberListing, 0)
	for rows.Next() {
		var l models.MemberListing
		if err := scanListing(rows, &l); err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family members: %w", err)
	}
	return listings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
