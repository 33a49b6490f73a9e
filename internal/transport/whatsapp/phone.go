// Package whatsapp handles the WhatsApp message channel: identity
// normalization, TwiML replies, and outbound delivery through Twilio.
package whatsapp

import "strings"

// NormalizePhone canonicalizes a sender identity. Twilio prefixes WhatsApp
// senders with "whatsapp:"; the conversation layer keys sessions by the bare
// E.164 number.
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "whatsapp:")
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s
}
