package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samajsetu/internal/platform/config"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"whatsapp:+911234567890": "+911234567890",
		"+911234567890":          "+911234567890",
		"911234567890":           "+911234567890",
		"  whatsapp:911234567890": "+911234567890",
		"": "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizePhone(raw), "input %q", raw)
	}
}

func TestRenderTwiML(t *testing.T) {
	payload, err := RenderTwiML(`Review & confirm <now>`)
	require.NoError(t, err)

	out := string(payload)
	assert.Contains(t, out, "<?xml")
	assert.Contains(t, out, "<Response><Message>Review &amp; confirm &lt;now&gt;</Message></Response>")
}

func TestRenderTwiMLEmpty(t *testing.T) {
	payload, err := RenderTwiML("")
	require.NoError(t, err)
	assert.Contains(t, string(payload), "<Response></Response>")
}

func TestTwilioSender(t *testing.T) {
	t.Run("posts form with channel prefixes", func(t *testing.T) {
		var gotPath, gotFrom, gotTo, gotBody string
		var gotUser, gotPass string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotPath = r.URL.Path
			gotFrom = r.PostFormValue("From")
			gotTo = r.PostFormValue("To")
			gotBody = r.PostFormValue("Body")
			gotUser, gotPass, _ = r.BasicAuth()
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		sender := NewTwilioSender(config.TwilioConfig{
			AccountSID:  "AC123",
			AuthToken:   "token",
			PhoneNumber: "whatsapp:+14155238886",
		}, WithBaseURL(server.URL))

		err := sender.SendMessage(context.Background(), "+911234567890", "hello")
		require.NoError(t, err)

		assert.Equal(t, "/Accounts/AC123/Messages.json", gotPath)
		assert.Equal(t, "whatsapp:+14155238886", gotFrom)
		assert.Equal(t, "whatsapp:+911234567890", gotTo)
		assert.Equal(t, "hello", gotBody)
		assert.Equal(t, "AC123", gotUser)
		assert.Equal(t, "token", gotPass)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code": 20003}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		sender := NewTwilioSender(config.TwilioConfig{
			AccountSID: "AC123",
			AuthToken:  "bad",
		}, WithBaseURL(server.URL))

		err := sender.SendMessage(context.Background(), "+911234567890", "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
