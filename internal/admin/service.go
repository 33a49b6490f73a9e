// Package admin serves the read side of the census: member listings,
// summaries, and the CSV export behind the authenticated API.
package admin

import (
	"context"
	"log/slog"

	"samajsetu/internal/member"
	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

// Service answers admin queries from the member read models.
type Service struct {
	reader member.Reader
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(reader member.Reader, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListMembers(ctx context.Context, f member.Filters) ([]models.MemberListing, error) {
	listings, err := s.reader.ListMembers(ctx, f)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list members", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list members")
	}
	return listings, nil
}

func (s *Service) GetMember(ctx context.Context, id int64) (*models.MemberListing, error) {
	listing, err := s.reader.GetMember(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to get member", "member_id", id, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get member")
	}
	return listing, nil
}

func (s *Service) ListSamajSummaries(ctx context.Context) ([]models.SamajSummary, error) {
	summaries, err := s.reader.ListSamajSummaries(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list samaj summaries", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list samaj summaries")
	}
	return summaries, nil
}

func (s *Service) ListFamilySummaries(ctx context.Context, samajName string) ([]models.FamilySummary, error) {
	summaries, err := s.reader.ListFamilySummaries(ctx, samajName)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list family summaries", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list family summaries")
	}
	return summaries, nil
}

func (s *Service) ListFamilyMembers(ctx context.Context, familyID int64) ([]models.MemberListing, error) {
	listings, err := s.reader.ListFamilyMembers(ctx, familyID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list family members", "family_id", familyID, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list family members")
	}
	return listings, nil
}
