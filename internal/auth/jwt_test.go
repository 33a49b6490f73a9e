package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"samajsetu/internal/platform/config"
	dErrors "samajsetu/pkg/domain-errors"
)

type JWTSuite struct {
	suite.Suite
	service *JWTService
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTSuite))
}

func (s *JWTSuite) SetupTest() {
	s.service = NewJWTService("test-signing-key", "samajsetu", 30*time.Minute)
}

func (s *JWTSuite) TestRoundTrip() {
	token, err := s.service.GenerateAccessToken("admin")
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := s.service.ValidateToken(token)
	s.Require().NoError(err)
	s.Equal("admin", claims.Username)
	s.Equal("samajsetu", claims.Issuer)
}

func (s *JWTSuite) TestExpiredToken() {
	expired := NewJWTService("test-signing-key", "samajsetu", -time.Minute)
	token, err := expired.GenerateAccessToken("admin")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("token has expired", dErrors.Message(err))
}

func (s *JWTSuite) TestWrongKeyRejected() {
	other := NewJWTService("another-key", "samajsetu", 30*time.Minute)
	token, err := other.GenerateAccessToken("admin")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *JWTSuite) TestGarbageRejected() {
	_, err := s.service.ValidateToken("not.a.token")
	s.Error(err)
}

func (s *JWTSuite) TestAdapter() {
	token, err := s.service.GenerateAccessToken("admin")
	s.Require().NoError(err)

	adapter := NewJWTServiceAdapter(s.service)
	claims, err := adapter.ValidateToken(token)
	s.Require().NoError(err)
	s.Equal("admin", claims.Username)
}

type AuthServiceSuite struct {
	suite.Suite
	service *Service
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupSuite() {
	jwtService := NewJWTService("test-signing-key", "samajsetu", 30*time.Minute)
	var err error
	s.service, err = NewService(config.AdminConfig{Username: "admin", Password: "secret"}, jwtService)
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestLogin() {
	ctx := context.Background()

	s.Run("valid credentials mint a token", func() {
		resp, err := s.service.Login(ctx, "admin", "secret")
		s.Require().NoError(err)
		s.NotEmpty(resp.AccessToken)
		s.Equal("bearer", resp.TokenType)
		s.Equal(int64(1800), resp.ExpiresIn)
	})

	s.Run("wrong password rejected", func() {
		_, err := s.service.Login(ctx, "admin", "wrong")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("Invalid username or password", dErrors.Message(err))
	})

	s.Run("unknown username rejected with the same message", func() {
		_, err := s.service.Login(ctx, "root", "secret")
		s.Require().Error(err)
		s.Equal("Invalid username or password", dErrors.Message(err))
	})
}
