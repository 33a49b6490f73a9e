package httptransport_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"samajsetu/internal/admin"
	"samajsetu/internal/auth"
	"samajsetu/internal/conversation"
	"samajsetu/internal/conversation/session"
	"samajsetu/internal/member"
	"samajsetu/internal/platform/config"
	"samajsetu/internal/platform/metrics"
	httptransport "samajsetu/internal/transport/http"
	"samajsetu/internal/transport/whatsapp"
	dErrors "samajsetu/pkg/domain-errors"
	"samajsetu/pkg/testutil"
)

type HandlersSuite struct {
	suite.Suite
	router        http.Handler
	memberStore   *member.InMemoryStore
	memberService *member.Service
	sessions      *session.InMemoryStore
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	log := testutil.NewLogger()

	s.memberStore = member.NewInMemory()
	s.memberService = member.NewService(s.memberStore)
	s.sessions = session.NewInMemoryStore()

	engine := conversation.NewEngine(s.sessions, s.memberService)

	jwtService := auth.NewJWTService("test-signing-key", "samajsetu", 30*time.Minute)
	authService, err := auth.NewService(config.AdminConfig{Username: "admin", Password: "secret"}, jwtService)
	s.Require().NoError(err)

	s.router = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:       log,
		Engine:       engine,
		Sender:       whatsapp.NewLogSender(log),
		SystemNumber: "whatsapp:+14155238886",
		Auth:         authService,
		Validator:    auth.NewJWTServiceAdapter(jwtService),
		Admin:        admin.NewService(s.memberStore),
	})
}

func (s *HandlersSuite) postWebhook(from, body string) (int, string, string) {
	form := url.Values{}
	form.Set("From", from)
	form.Set("Body", body)
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/api/v1/whatsapp/webhook", form)
	rr := testutil.DoRequest(s.router, req)
	return rr.Code, rr.Header().Get("Content-Type"), rr.Body.String()
}

func (s *HandlersSuite) registerMember(name, role, familyHead string, age int) {
	var a session.Answers
	a.Set(conversation.FieldSamaj, "Test Samaj")
	a.Set(conversation.FieldName, name)
	a.Set(conversation.FieldFamilyRole, role)
	a.Set(conversation.FieldFamilyHead, familyHead)
	a.Set(conversation.FieldGender, "Female")
	a.Set(conversation.FieldAge, strconv.Itoa(age))
	a.Set(conversation.FieldBloodGroup, "O+")
	a.Set(conversation.FieldMobile1, "9876543210")
	a.Set(conversation.FieldEducation, "Graduate")
	a.Set(conversation.FieldOccupation, "Business")
	a.Set(conversation.FieldMaritalStatus, "Married")
	a.Set(conversation.FieldAddress, "12 Sample Street")
	a.Set(conversation.FieldEmail, "jane@example.com")
	a.Set(conversation.FieldBirthDate, "01/01/1980")
	a.Set(conversation.FieldNativePlace, "Gujarat")
	a.Set(conversation.FieldCurrentCity, "Mumbai")
	a.Set(conversation.FieldLanguagesKnown, "English, Hindi")
	a.Set(conversation.FieldSkills, "Teaching")
	a.Set(conversation.FieldHobbies, "Reading")
	a.Set(conversation.FieldEmergencyContact, "9123456780")
	a.Set(conversation.FieldRelationshipStatus, "Married")
	a.Set(conversation.FieldDietaryPreferences, "Vegetarian")
	a.Set(conversation.FieldProfessionCategory, "Education")

	_, err := s.memberService.Save(context.Background(), a, "+911111111111")
	s.Require().NoError(err)
}

func (s *HandlersSuite) loginToken() string {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "admin", "password": "secret"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[auth.TokenResponse](s.T(), rr)
	s.Require().NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (s *HandlersSuite) authedGet(path, token string) *http.Request {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *HandlersSuite) TestWebhookStart() {
	code, contentType, body := s.postWebhook("whatsapp:+911234567890", "start")
	s.Equal(http.StatusOK, code)
	s.Equal("text/xml", contentType)
	s.Contains(body, "<Response><Message>")
	s.Contains(body, "Welcome to Family &amp; Samaj Data Collection Bot!")
	s.Equal(1, s.sessions.Len())
}

func (s *HandlersSuite) TestWebhookRejectsMedia() {
	form := url.Values{}
	form.Set("From", "whatsapp:+911234567890")
	form.Set("Body", "start")
	form.Set("NumMedia", "2")
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/api/v1/whatsapp/webhook", form)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	s.Contains(rr.Body.String(), "Media attachments are not supported. Please send text messages only.")
	s.Equal(0, s.sessions.Len())
}

func (s *HandlersSuite) TestWebhookRefusesSystemNumber() {
	code, _, body := s.postWebhook("whatsapp:+14155238886", "start")
	s.Equal(http.StatusOK, code)
	s.Contains(body, "Cannot process messages from the system number.")
	s.Equal(0, s.sessions.Len())
}

func (s *HandlersSuite) TestWebhookRejectsBadPhone() {
	code, _, body := s.postWebhook("whatsapp:+12ab", "start")
	s.Equal(http.StatusOK, code)
	s.Contains(body, "Invalid phone number format. Please try again.")
}

func (s *HandlersSuite) TestLogin() {
	s.Run("valid credentials return a bearer token", func() {
		token := s.loginToken()
		s.NotEmpty(token)
	})

	s.Run("bad credentials return unauthorized", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "admin", "password": "wrong"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		testutil.AssertErrorCode(s.T(), rr, "unauthorized")
	})

	s.Run("missing fields are a bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "admin"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlersSuite) TestAdminRequiresAuth() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/v1/admin/members", nil)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)

	req = testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/v1/admin/members", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
}

func (s *HandlersSuite) TestAdminListMembers() {
	s.registerMember("Jane Doe", "Head", "Jane Doe", 45)
	s.registerMember("Asha Doe", "Child", "Jane Doe", 12)
	token := s.loginToken()

	rr := testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/members", token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	members := testutil.UnmarshalResponse[[]httptransport.MemberSummaryResponse](s.T(), rr)
	s.Require().Len(*members, 2)
	s.Equal("Jane Doe", (*members)[0].Name)
	s.True((*members)[0].IsFamilyHead)

	rr = testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/members?role=Child", token))
	members = testutil.UnmarshalResponse[[]httptransport.MemberSummaryResponse](s.T(), rr)
	s.Require().Len(*members, 1)
	s.Equal("Asha Doe", (*members)[0].Name)
}

func (s *HandlersSuite) TestAdminMemberDetail() {
	s.registerMember("Jane Doe", "Head", "Jane Doe", 45)
	token := s.loginToken()

	rr := testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/members/1", token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	detail := testutil.UnmarshalResponse[httptransport.MemberDetailResponse](s.T(), rr)
	s.Equal("Jane Doe", detail.Name)
	s.Equal("Test Samaj", detail.Samaj)
	s.Equal("Jane Doe's Family", detail.Family)

	rr = testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/members/999", token))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	testutil.AssertErrorCode(s.T(), rr, "not_found")
}

func (s *HandlersSuite) TestAdminSamajAndFamilies() {
	s.registerMember("Jane Doe", "Head", "Jane Doe", 45)
	s.registerMember("Asha Doe", "Child", "Jane Doe", 12)
	token := s.loginToken()

	rr := testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/samaj", token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	samajes := testutil.UnmarshalResponse[[]httptransport.SamajResponse](s.T(), rr)
	s.Require().Len(*samajes, 1)
	s.Equal(int64(1), (*samajes)[0].FamilyCount)
	s.Equal(int64(2), (*samajes)[0].MemberCount)

	rr = testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/families/summary", token))
	families := testutil.UnmarshalResponse[[]httptransport.FamilySummaryResponse](s.T(), rr)
	s.Require().Len(*families, 1)
	s.Equal("Jane Doe's Family", (*families)[0].Name)
	s.Equal(int64(2), (*families)[0].MemberCount)

	familyID := (*families)[0].ID
	rr = testutil.DoRequest(s.router, s.authedGet(
		"/api/v1/admin/families/"+strconv.FormatInt(familyID, 10)+"/members", token))
	familyMembers := testutil.UnmarshalResponse[[]httptransport.FamilyMemberResponse](s.T(), rr)
	s.Len(*familyMembers, 2)
}

func (s *HandlersSuite) TestAdminExportCSV() {
	s.registerMember("Jane Doe", "Head", "Jane Doe", 45)
	token := s.loginToken()

	rr := testutil.DoRequest(s.router, s.authedGet("/api/v1/admin/export/csv?samaj_name=Test+Samaj", token))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("text/csv", rr.Header().Get("Content-Type"))
	s.Equal(`attachment; filename="members_Test Samaj.csv"`, rr.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	s.Require().Len(lines, 2)
	s.True(strings.HasPrefix(lines[0], "Samaj,Family,Name,Gender,Age,Blood Group"))
	s.Contains(lines[1], "Test Samaj,Jane Doe's Family,Jane Doe")
}

type failingSender struct{}

func (failingSender) SendMessage(context.Context, string, string) error {
	return dErrors.New(dErrors.CodeInternal, "message delivery failed with status 500")
}

func TestWebhookReportsDeliveryFailure(t *testing.T) {
	log := testutil.NewLogger()
	m := metrics.New()
	memberStore := member.NewInMemory()
	engine := conversation.NewEngine(session.NewInMemoryStore(), member.NewService(memberStore))

	jwtService := auth.NewJWTService("test-signing-key", "samajsetu", 30*time.Minute)
	authService, err := auth.NewService(config.AdminConfig{Username: "admin", Password: "secret"}, jwtService)
	require.NoError(t, err)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:       log,
		Metrics:      m,
		Engine:       engine,
		Sender:       failingSender{},
		SystemNumber: "whatsapp:+14155238886",
		Auth:         authService,
		Validator:    auth.NewJWTServiceAdapter(jwtService),
		Admin:        admin.NewService(memberStore),
	})

	form := url.Values{}
	form.Set("From", "whatsapp:+911234567890")
	form.Set("Body", "start")
	req := testutil.NewFormRequest(t, http.MethodPost, "/api/v1/whatsapp/webhook", form)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	require.Contains(t, rr.Body.String(), "Failed to send response message")
	require.Equal(t, 1.0, promtestutil.ToFloat64(m.DeliveryFailures))
}

func (s *HandlersSuite) TestHealth() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/health", nil)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), `"status":"ok"`)
}
