package member

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"samajsetu/internal/audit"
	"samajsetu/internal/conversation"
	"samajsetu/internal/conversation/session"
	"samajsetu/internal/family"
	"samajsetu/internal/models"
	"samajsetu/internal/platform/metrics"
	dErrors "samajsetu/pkg/domain-errors"
)

const msgSaveFailed = "An error occurred while saving your information. Please try again later."

// Service turns a confirmed answer set into committed rows. The whole
// registration runs in one transaction; relationship rules are re-checked
// against the family as it exists at commit time, not as it looked when the
// conversation started.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	trail   *audit.Trail
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithAuditTrail(trail *audit.Trail) ServiceOption {
	return func(s *Service) { s.trail = trail }
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists a confirmed registration and returns the user-facing
// confirmation message. Any returned error carries a message safe to relay
// to the user.
func (s *Service) Save(ctx context.Context, answers session.Answers, phone string) (string, error) {
	m, err := buildMember(answers)
	if err != nil {
		s.metrics.RecordSaveFailure()
		return "", err
	}
	samajName := answers.Value(conversation.FieldSamaj)
	familyHead := answers.Value(conversation.FieldFamilyHead)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to begin registration tx", "error", err)
		s.metrics.RecordSaveFailure()
		return "", dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}
	defer tx.Rollback() //nolint:errcheck

	samaj, err := tx.GetOrCreateSamaj(ctx, samajName)
	if err != nil {
		s.metrics.RecordSaveFailure()
		return "", dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}
	m.SamajID = samaj.ID

	var fam *models.Family
	if m.FamilyRole == models.RoleHead {
		fam, err = s.createFamily(ctx, tx, samaj, m)
	} else {
		fam, err = s.joinFamily(ctx, tx, samaj, m, familyHead)
	}
	if err != nil {
		s.metrics.RecordSaveFailure()
		return "", err
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "failed to commit registration", "error", err)
		s.metrics.RecordSaveFailure()
		return "", dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}

	s.metrics.RecordMemberSaved()
	if s.trail != nil {
		s.trail.Record(audit.NewEvent(phone, samaj.Name, fam.Name, m.Name, string(m.FamilyRole), m.ID))
	}
	return successMessage(m, samaj.Name, familyHead), nil
}

func (s *Service) createFamily(ctx context.Context, tx Tx, samaj *models.Samaj, m *models.Member) (*models.Family, error) {
	familyName := m.Name + "'s Family"
	fam, err := tx.CreateFamily(ctx, samaj.ID, familyName)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, dErrors.New(dErrors.CodeConflict,
				fmt.Sprintf("A family with name '%s' already exists in %s Samaj", familyName, samaj.Name))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}

	m.FamilyID = fam.ID
	m.IsFamilyHead = true
	if err := tx.CreateMember(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}
	if err := tx.SetFamilyHead(ctx, fam.ID, m.ID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}
	return fam, nil
}

func (s *Service) joinFamily(ctx context.Context, tx Tx, samaj *models.Samaj, m *models.Member, familyHead string) (*models.Family, error) {
	fam, err := tx.FindFamilyByHead(ctx, samaj.ID, familyHead)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Error: Family head not found. Please try again.")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}

	existing, err := tx.ListFamilyMembers(ctx, fam.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}
	infos := make([]family.MemberInfo, 0, len(existing))
	for _, e := range existing {
		infos = append(infos, family.MemberInfo{Name: e.Name, Role: e.FamilyRole, Age: e.Age})
	}
	if err := family.CheckRole(m.FamilyRole, m.Age, infos); err != nil {
		return nil, err
	}

	m.FamilyID = fam.ID
	if err := tx.CreateMember(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgSaveFailed)
	}
	return fam, nil
}

func buildMember(answers session.Answers) (*models.Member, error) {
	role, err := models.ParseFamilyRole(answers.Value(conversation.FieldFamilyRole))
	if err != nil {
		return nil, err
	}

	m := &models.Member{
		Name:               answers.Value(conversation.FieldName),
		FamilyRole:         role,
		IsFamilyHead:       role == models.RoleHead,
		Gender:             answers.Value(conversation.FieldGender),
		BloodGroup:         answers.Value(conversation.FieldBloodGroup),
		Mobile1:            answers.Value(conversation.FieldMobile1),
		Mobile2:            optional(answers, conversation.FieldMobile2),
		Education:          answers.Value(conversation.FieldEducation),
		Occupation:         answers.Value(conversation.FieldOccupation),
		MaritalStatus:      answers.Value(conversation.FieldMaritalStatus),
		Address:            answers.Value(conversation.FieldAddress),
		Email:              answers.Value(conversation.FieldEmail),
		BirthDate:          answers.Value(conversation.FieldBirthDate),
		AnniversaryDate:    optional(answers, conversation.FieldAnniversaryDate),
		NativePlace:        answers.Value(conversation.FieldNativePlace),
		CurrentCity:        answers.Value(conversation.FieldCurrentCity),
		LanguagesKnown:     answers.Value(conversation.FieldLanguagesKnown),
		Skills:             answers.Value(conversation.FieldSkills),
		Hobbies:            answers.Value(conversation.FieldHobbies),
		EmergencyContact:   answers.Value(conversation.FieldEmergencyContact),
		RelationshipStatus: answers.Value(conversation.FieldRelationshipStatus),
		MedicalConditions:  optional(answers, conversation.FieldMedicalConditions),
		DietaryPreferences: answers.Value(conversation.FieldDietaryPreferences),
		SocialMediaHandles: optional(answers, conversation.FieldSocialMediaHandles),
		ProfessionCategory: answers.Value(conversation.FieldProfessionCategory),
		VolunteerInterests: optional(answers, conversation.FieldVolunteerInterests),
	}

	if raw := answers.Value(conversation.FieldAge); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "Please enter a valid age between 0 and 120")
		}
		m.Age = &age
	}

	if role != models.RoleHead && answers.Value(conversation.FieldFamilyHead) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Family head name is required")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func optional(answers session.Answers, key string) *string {
	ans, ok := answers.Lookup(key)
	if !ok || ans.Skipped || ans.Value == "" {
		return nil
	}
	v := ans.Value
	return &v
}

func successMessage(m *models.Member, samajName, familyHead string) string {
	const prefix = "Thank you! Your information has been saved. You are registered as "
	switch m.FamilyRole {
	case models.RoleHead:
		return prefix + fmt.Sprintf("the head of %s's family in %s Samaj.", m.Name, samajName)
	case models.RoleSpouse:
		return prefix + fmt.Sprintf("the spouse in %s's family in %s Samaj.", familyHead, samajName)
	case models.RoleChild:
		return prefix + fmt.Sprintf("a child in %s's family in %s Samaj.", familyHead, samajName)
	case models.RoleParent:
		return prefix + fmt.Sprintf("a parent in %s's family in %s Samaj.", familyHead, samajName)
	case models.RoleSibling:
		return prefix + fmt.Sprintf("a sibling in %s's family in %s Samaj.", familyHead, samajName)
	default:
		return prefix + fmt.Sprintf("a member in %s's family in %s Samaj.", familyHead, samajName)
	}
}
