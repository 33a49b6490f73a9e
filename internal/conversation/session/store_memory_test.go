package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "+911234567890")
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	sess := New("+911234567890")
	sess.Answers.Set("samaj", "Test Samaj")
	sess.Step = 1

	s.Require().NoError(s.store.Put(ctx, sess))

	got, err := s.store.Get(ctx, "+911234567890")
	s.Require().NoError(err)
	s.Equal(Step(1), got.Step)
	s.Equal("Test Samaj", got.Answers.Value("samaj"))
}

func (s *InMemoryStoreSuite) TestGetReturnsIndependentCopy() {
	ctx := context.Background()
	sess := New("+911234567890")
	sess.Answers.Set("samaj", "Test Samaj")
	s.Require().NoError(s.store.Put(ctx, sess))

	got, err := s.store.Get(ctx, "+911234567890")
	s.Require().NoError(err)
	got.Answers.Set("samaj", "Changed")
	got.Step = 99

	// The stored session is untouched until Put.
	again, err := s.store.Get(ctx, "+911234567890")
	s.Require().NoError(err)
	s.Equal("Test Samaj", again.Answers.Value("samaj"))
	s.Equal(Step(0), again.Step)
}

func (s *InMemoryStoreSuite) TestPutDetachesCallerSlice() {
	ctx := context.Background()
	sess := New("+911234567890")
	sess.Answers.Set("samaj", "Test Samaj")
	s.Require().NoError(s.store.Put(ctx, sess))

	sess.Answers.Set("samaj", "Mutated After Put")

	got, err := s.store.Get(ctx, "+911234567890")
	s.Require().NoError(err)
	s.Equal("Test Samaj", got.Answers.Value("samaj"))
}

func (s *InMemoryStoreSuite) TestDelete() {
	ctx := context.Background()
	sess := New("+911234567890")
	s.Require().NoError(s.store.Put(ctx, sess))
	s.Equal(1, s.store.Len())

	s.Require().NoError(s.store.Delete(ctx, "+911234567890"))
	s.Equal(0, s.store.Len())

	// Deleting again is a no-op.
	s.NoError(s.store.Delete(ctx, "+911234567890"))
}

func (s *InMemoryStoreSuite) TestAnswersOrderPreserved() {
	ctx := context.Background()
	sess := New("+911234567890")
	sess.Answers.Set("samaj", "Test Samaj")
	sess.Answers.Set("name", "Jane Doe")
	sess.Answers.SetSkipped("mobile_2")
	sess.Answers.Set("samaj", "Updated Samaj") // in-place update keeps position

	s.Require().NoError(s.store.Put(ctx, sess))
	got, err := s.store.Get(ctx, "+911234567890")
	s.Require().NoError(err)

	s.Require().Len(got.Answers, 3)
	s.Equal("samaj", got.Answers[0].Key)
	s.Equal("Updated Samaj", got.Answers[0].Value)
	s.Equal("name", got.Answers[1].Key)
	s.True(got.Answers[2].Skipped)
}
