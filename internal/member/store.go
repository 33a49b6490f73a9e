// Package member persists registered members and serves the read models
// behind the admin API. Writes run inside a single transaction so a failed
// registration leaves no partial family behind.
package member

import (
	"context"

	"samajsetu/internal/models"
)

// Filters narrows admin member listings. Zero values mean "no filter";
// string filters match case-insensitive substrings.
type Filters struct {
	SamajName    string
	FamilyName   string
	Name         string
	Role         string
	BloodGroup   string
	City         string
	Profession   string
	AgeMin       *int
	AgeMax       *int
	IsFamilyHead *bool
	Limit        int
	Offset       int
}

// Tx is one write transaction. Either Commit or Rollback must be called;
// Rollback after Commit is a no-op.
type Tx interface {
	// GetOrCreateSamaj returns the samaj with the given name, creating it
	// if absent.
	GetOrCreateSamaj(ctx context.Context, name string) (*models.Samaj, error)

	// CreateFamily adds a family to the samaj. Returns CodeConflict when a
	// family with that name already exists in the samaj.
	CreateFamily(ctx context.Context, samajID int64, name string) (*models.Family, error)

	// FindFamilyByHead locates the family whose head member has the given
	// name. The name comparison is case-insensitive: callers relay a
	// hand-typed name from the conversation. Returns CodeNotFound when no
	// such family exists.
	FindFamilyByHead(ctx context.Context, samajID int64, headName string) (*models.Family, error)

	// ListFamilyMembers returns all current members of the family.
	ListFamilyMembers(ctx context.Context, familyID int64) ([]models.Member, error)

	// CreateMember inserts the member and fills in its ID and timestamps.
	CreateMember(ctx context.Context, m *models.Member) error

	// SetFamilyHead records the member as the family's head.
	SetFamilyHead(ctx context.Context, familyID, memberID int64) error

	Commit() error
	Rollback() error
}

// Reader serves the admin read models.
type Reader interface {
	ListMembers(ctx context.Context, f Filters) ([]models.MemberListing, error)
	GetMember(ctx context.Context, id int64) (*models.MemberListing, error)
	ListSamajSummaries(ctx context.Context) ([]models.SamajSummary, error)
	ListFamilySummaries(ctx context.Context, samajName string) ([]models.FamilySummary, error)
	ListFamilyMembers(ctx context.Context, familyID int64) ([]models.MemberListing, error)
}

// Store is the full persistence surface of the member domain.
type Store interface {
	Reader
	Begin(ctx context.Context) (Tx, error)
}
