package httptransport

import (
	"time"

	"samajsetu/internal/models"
)

// MemberSummaryResponse is one row of GET /api/v1/admin/members.
type MemberSummaryResponse struct {
	ID           int64  `json:"id"`
	Samaj        string `json:"samaj"`
	Family       string `json:"family"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Age          *int   `json:"age"`
	BloodGroup   string `json:"blood_group"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	City         string `json:"city"`
	Profession   string `json:"profession"`
	IsFamilyHead bool   `json:"is_family_head"`
}

func toMemberSummary(l models.MemberListing) MemberSummaryResponse {
	return MemberSummaryResponse{
		ID:           l.ID,
		Samaj:        l.SamajName,
		Family:       l.FamilyName,
		Name:         l.Name,
		Role:         string(l.FamilyRole),
		Age:          l.Age,
		BloodGroup:   l.BloodGroup,
		Mobile:       l.Mobile1,
		Email:        l.Email,
		City:         l.CurrentCity,
		Profession:   l.ProfessionCategory,
		IsFamilyHead: l.IsFamilyHead,
	}
}

// SamajResponse is one row of GET /api/v1/admin/samaj.
type SamajResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FamilyCount int64     `json:"family_count"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSamajResponse(s models.SamajSummary) SamajResponse {
	return SamajResponse{
		ID:          s.ID,
		Name:        s.Name,
		FamilyCount: s.FamilyCount,
		MemberCount: s.MemberCount,
		CreatedAt:   s.CreatedAt,
	}
}

// FamilySummaryResponse is one row of GET /api/v1/admin/families/summary.
type FamilySummaryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Samaj        string    `json:"samaj"`
	HeadOfFamily *string   `json:"head_of_family"`
	MemberCount  int64     `json:"member_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func toFamilySummary(f models.FamilySummary) FamilySummaryResponse {
	return FamilySummaryResponse{
		ID:           f.ID,
		Name:         f.Name,
		Samaj:        f.SamajName,
		HeadOfFamily: f.HeadName,
		MemberCount:  f.MemberCount,
		CreatedAt:    f.CreatedAt,
	}
}

// FamilyMemberResponse is one row of GET /api/v1/admin/families/{id}/members.
type FamilyMemberResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Age          *int   `json:"age"`
	IsFamilyHead bool   `json:"is_family_head"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
}

func toFamilyMember(l models.MemberListing) FamilyMemberResponse {
	return FamilyMemberResponse{
		ID:           l.ID,
		Name:         l.Name,
		Role:         string(l.FamilyRole),
		Age:          l.Age,
		IsFamilyHead: l.IsFamilyHead,
		Mobile:       l.Mobile1,
		Email:        l.Email,
	}
}

// MemberDetailResponse is the full record served by
// GET /api/v1/admin/members/{id}.
type MemberDetailResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	FamilyRole         string  `json:"family_role"`
	Gender             string  `json:"gender"`
	Age                *int    `json:"age"`
	BloodGroup         string  `json:"blood_group"`
	Mobile1            string  `json:"mobile_1"`
	Mobile2            *string `json:"mobile_2"`
	Email              string  `json:"email"`
	Education          string  `json:"education"`
	Occupation         string  `json:"occupation"`
	MaritalStatus      string  `json:"marital_status"`
	Address            string  `json:"address"`
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
	IsFamilyHead       bool    `json:"is_family_head"`
	Samaj              string  `json:"samaj"`
	Family             string  `json:"family"`
}

func toMemberDetail(l *models.MemberListing) MemberDetailResponse {
	return MemberDetailResponse{
		ID:                 l.ID,
		Name:               l.Name,
		FamilyRole:         string(l.FamilyRole),
		Gender:             l.Gender,
		Age:                l.Age,
		BloodGroup:         l.BloodGroup,
		Mobile1:            l.Mobile1,
		Mobile2:            l.Mobile2,
		Email:              l.Email,
		Education:          l.Education,
		Occupation:         l.Occupation,
		MaritalStatus:      l.MaritalStatus,
		Address:            l.Address,
		BirthDate:          l.BirthDate,
		AnniversaryDate:    l.AnniversaryDate,
		NativePlace:        l.NativePlace,
		CurrentCity:        l.CurrentCity,
		LanguagesKnown:     l.LanguagesKnown,
		Skills:             l.Skills,
		Hobbies:            l.Hobbies,
		EmergencyContact:   l.EmergencyContact,
		RelationshipStatus: l.RelationshipStatus,
		MedicalConditions:  l.MedicalConditions,
		DietaryPreferences: l.DietaryPreferences,
		SocialMediaHandles: l.SocialMediaHandles,
		ProfessionCategory: l.ProfessionCategory,
		VolunteerInterests: l.VolunteerInterests,
		IsFamilyHead:       l.IsFamilyHead,
		Samaj:              l.SamajName,
		Family:             l.FamilyName,
	}
}
