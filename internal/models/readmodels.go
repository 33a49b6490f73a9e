package models

import "time"

// MemberListing is a member joined with the names of its samaj and family,
// as served by the admin listing and export endpoints.
type MemberListing struct {
	Member
	SamajName  string `json:"samaj_name"`
	FamilyName string `json:"family_name"`
}

// SamajSummary is a samaj with aggregate counts.
type SamajSummary struct {
	Samaj
	FamilyCount int64 `json:"family_count"`
	MemberCount int64 `json:"member_count"`
}

// FamilySummary is the per-family roll-up shown on the admin dashboard.
type FamilySummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SamajName   string    `json:"samaj_name"`
	HeadName    *string   `json:"head_name"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}
