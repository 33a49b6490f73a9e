package whatsapp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"samajsetu/internal/platform/config"
	dErrors "samajsetu/pkg/domain-errors"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioSender delivers messages through Twilio's REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type TwilioOption func(*TwilioSender)

func WithHTTPClient(client *http.Client) TwilioOption {
	return func(s *TwilioSender) { s.httpClient = client }
}

func WithBaseURL(baseURL string) TwilioOption {
	return func(s *TwilioSender) { s.baseURL = baseURL }
}

func WithLogger(logger *slog.Logger) TwilioOption {
	return func(s *TwilioSender) { s.logger = logger }
}

func NewTwilioSender(cfg config.TwilioConfig, opts ...TwilioOption) *TwilioSender {
	s := &TwilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.PhoneNumber,
		baseURL:    twilioAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TwilioSender) SendMessage(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", withChannelPrefix(s.from))
	form.Set("To", withChannelPrefix(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build message request")
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deliver message")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.ErrorContext(ctx, "message delivery rejected",
			"status", resp.StatusCode,
			"to", to,
			"response", string(payload),
		)
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("message delivery failed with status %d", resp.StatusCode))
	}
	return nil
}

func withChannelPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
