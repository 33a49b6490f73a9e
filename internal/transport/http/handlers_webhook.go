package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"samajsetu/internal/conversation"
	"samajsetu/internal/platform/metrics"
	"samajsetu/internal/platform/middleware"
	"samajsetu/internal/transport/whatsapp"
	"samajsetu/pkg/httputil"
)

// WebhookHandler receives inbound WhatsApp messages from Twilio.
type WebhookHandler struct {
	engine       *conversation.Engine
	sender       whatsapp.Sender
	systemNumber string
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewWebhookHandler(engine *conversation.Engine, sender whatsapp.Sender, systemNumber string, logger *slog.Logger, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{
		engine:       engine,
		sender:       sender,
		systemNumber: whatsapp.NormalizePhone(systemNumber),
		logger:       logger,
		metrics:      m,
	}
}

func (h *WebhookHandler) Register(r chi.Router) {
	r.Post("/webhook", h.HandleWebhook)
}

// HandleWebhook processes one inbound message and answers with TwiML.
// Processing failures still return 200 with a user-facing message; Twilio
// retries on non-2xx, and retrying a failed registration would not help.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request format. Please try again.",
		})
		return
	}

	if numMedia, err := strconv.Atoi(r.PostFormValue("NumMedia")); err == nil && numMedia > 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Media attachments are not supported. Please send text messages only.",
		})
		return
	}

	phone := whatsapp.NormalizePhone(r.PostFormValue("From"))
	body := r.PostFormValue("Body")

	h.logger.InfoContext(ctx, "webhook received",
		"request_id", requestID,
		"phone", phone,
		"chars", len(body),
	)

	if !validPhone(phone) {
		h.writeTwiML(w, "Invalid phone number format. Please try again.")
		return
	}
	if h.systemNumber != "" && phone == h.systemNumber {
		h.logger.WarnContext(ctx, "message from system number refused", "request_id", requestID)
		h.writeTwiML(w, "Cannot process messages from the system number.")
		return
	}

	reply, ok := h.engine.HandleMessage(ctx, phone, body)
	if !ok {
		h.logger.WarnContext(ctx, "message handling failed",
			"request_id", requestID,
			"phone", phone,
		)
		h.writeTwiML(w, reply)
		return
	}

	if err := h.sender.SendMessage(ctx, phone, reply); err != nil {
		h.metrics.RecordDeliveryFailure()
		h.logger.ErrorContext(ctx, "outbound delivery failed",
			"request_id", requestID,
			"phone", phone,
			"error", err,
		)
		h.writeTwiML(w, "Failed to send response message")
		return
	}

	h.writeTwiML(w, reply)
}

func (h *WebhookHandler) writeTwiML(w http.ResponseWriter, message string) {
	payload, err := whatsapp.RenderTwiML(message)
	if err != nil {
		h.logger.Error("failed to render twiml", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// validPhone accepts "+" followed by at least nine digits.
func validPhone(phone string) bool {
	if len(phone) < 10 || !strings.HasPrefix(phone, "+") {
		return false
	}
	for _, c := range phone[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
