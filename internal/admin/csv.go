package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"samajsetu/internal/member"
	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

var csvHeaders = []string{
	"Samaj", "Family", "Name", "Gender", "Age", "Blood Group", "Mobile 1", "Mobile 2",
	"Education", "Occupation", "Marital Status", "Address", "Email",
	"Birth Date", "Anniversary Date", "Native Place", "Current City",
	"Languages Known", "Skills", "Hobbies", "Emergency Contact",
	"Relationship Status", "Family Role", "Medical Conditions",
	"Dietary Preferences", "Social Media Handles", "Profession Category",
	"Volunteer Interests",
}

// ExportCSV renders the filtered member set as CSV. The returned filename
// embeds the samaj filter, or "all" when none is set.
func (s *Service) ExportCSV(ctx context.Context, f member.Filters) (filename string, data []byte, err error) {
	listings, err := s.reader.ListMembers(ctx, f)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to export members", "error", err)
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export members")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeaders); err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export members")
	}
	for _, l := range listings {
		if err := w.Write(csvRow(l)); err != nil {
			return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export members")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export members")
	}

	samajName := f.SamajName
	if samajName == "" {
		samajName = "all"
	}
	return "members_" + samajName + ".csv", buf.Bytes(), nil
}

func csvRow(l models.MemberListing) []string {
	return []string{
		l.SamajName, l.FamilyName,
		l.Name, l.Gender, intOrEmpty(l.Age), l.BloodGroup,
		l.Mobile1, strOrEmpty(l.Mobile2), l.Education,
		l.Occupation, l.MaritalStatus, l.Address,
		l.Email, l.BirthDate, strOrEmpty(l.AnniversaryDate),
		l.NativePlace, l.CurrentCity, l.LanguagesKnown,
		l.Skills, l.Hobbies, l.EmergencyContact,
		l.RelationshipStatus, string(l.FamilyRole), strOrEmpty(l.MedicalConditions),
		l.DietaryPreferences, strOrEmpty(l.SocialMediaHandles),
		l.ProfessionCategory, strOrEmpty(l.VolunteerInterests),
	}
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
