// Package conversation implements the turn-by-turn data collection dialogue.
// One inbound message produces exactly one reply; all state between turns
// lives in the session store.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"samajsetu/internal/conversation/session"
	"samajsetu/internal/models"
	"samajsetu/internal/platform/metrics"
	dErrors "samajsetu/pkg/domain-errors"
)

// MemberSaver commits a confirmed answer set. On success it returns the
// user-facing confirmation message; on failure the returned error carries a
// user-facing message and the session must be left intact for a retry.
type MemberSaver interface {
	Save(ctx context.Context, answers session.Answers, phone string) (string, error)
}

const (
	msgWelcome         = "Welcome to Family & Samaj Data Collection Bot!"
	msgSendStart       = "Please send 'Start' to begin."
	msgNoSession       = "Please send 'Start' to begin the data collection process."
	msgJoinWelcome     = "Welcome to the Family & Samaj Data Collection bot! Send 'Start' to begin."
	msgJoinNeedCode    = "Please provide the sandbox code after 'join'. Example: 'join hello'"
	msgYesOrNo         = "Please reply with 'Yes' to confirm or 'No' to make corrections."
	msgBadMenuChoice   = "Please enter a valid number from the list."
	msgNoCorrection    = "An error occurred during correction. Please start over."
	msgRoleUnconfirmed = "Error: Family role not confirmed. Please start over."
)

// Engine drives the conversation state machine. It is safe for concurrent
// use across identities; per-identity serialization is the caller's job
// (each webhook request is handled to completion).
type Engine struct {
	sessions session.Store
	saver    MemberSaver
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func NewEngine(sessions session.Store, saver MemberSaver, opts ...Option) *Engine {
	e := &Engine{
		sessions: sessions,
		saver:    saver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage consumes one inbound message from phone and returns the
// reply plus a success flag. Every path returns a user-facing string; the
// engine never lets an error escape to the transport.
func (e *Engine) HandleMessage(ctx context.Context, phone, body string) (reply string, ok bool) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveHandleDuration(time.Since(start).Seconds())
	}()
	e.metrics.RecordMessage()

	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)

	if phone == "" || trimmed == "" {
		return "Invalid request. Please try again.", false
	}

	// "start" always wins, regardless of any existing session state.
	if lower == "start" {
		sess := session.New(phone)
		if err := e.sessions.Put(ctx, sess); err != nil {
			e.logger.ErrorContext(ctx, "failed to create session", "phone", phone, "error", err)
			return "Failed to start session. Please try again.", false
		}
		e.metrics.RecordSessionStart()
		e.logger.InfoContext(ctx, "session started", "phone", phone)
		return msgWelcome + "\n" + openingFields[0].Prompt, true
	}

	// Sandbox activation handshake; never touches the session.
	if strings.HasPrefix(lower, "join") {
		if len(strings.Fields(trimmed)) > 1 {
			return msgJoinWelcome, true
		}
		return msgJoinNeedCode, true
	}

	sess, err := e.sessions.Get(ctx, phone)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			e.logger.ErrorContext(ctx, "session store read failed", "phone", phone, "error", err)
		}
		return msgNoSession, true
	}

	seq := fieldSequence(currentRole(sess))

	switch {
	case sess.Step >= 0 && int(sess.Step) < len(seq):
		return e.handleFieldAnswer(ctx, sess, seq, trimmed)
	case sess.Step == session.StepConfirm:
		return e.handleConfirm(ctx, sess, lower)
	case sess.Step == session.StepSelectField:
		return e.handleFieldSelection(ctx, sess, trimmed)
	case sess.Step == session.StepCorrectValue:
		return e.handleCorrection(ctx, sess, trimmed)
	default:
		// Uninitialized or corrupted step; leave the session alone.
		e.logger.WarnContext(ctx, "session in invalid step", "phone", phone, "step", int(sess.Step))
		return msgSendStart, true
	}
}

func currentRole(sess *session.Session) models.FamilyRole {
	return models.FamilyRole(sess.Answers.Value(FieldFamilyRole))
}

func (e *Engine) handleFieldAnswer(ctx context.Context, sess *session.Session, seq []Field, raw string) (string, bool) {
	field := seq[sess.Step]

	value, skipped, err := Validate(field.Key, raw)
	if err != nil {
		e.metrics.RecordValidationFailure(field.Key)
		e.logger.InfoContext(ctx, "field rejected", "phone", sess.Phone, "field", field.Key)
		return dErrors.Message(err), true
	}

	if skipped {
		sess.Answers.SetSkipped(field.Key)
	} else {
		sess.Answers.Set(field.Key, value)
	}

	switch field.Key {
	case FieldFamilyRole:
		e.applyRole(sess)
		// The sequence may have grown a family_head question.
		seq = fieldSequence(currentRole(sess))
	case FieldFamilyHead:
		sess.Family.FamilyHead = value
	}

	sess.Step++
	sess.UpdatedAt = time.Now().UTC()

	var reply string
	if int(sess.Step) >= len(seq) {
		sess.Step = session.StepConfirm
		reply = renderSummary(sess, false)
	} else {
		reply = seq[sess.Step].Prompt
	}

	if err := e.sessions.Put(ctx, sess); err != nil {
		e.logger.ErrorContext(ctx, "session store write failed", "phone", sess.Phone, "error", err)
		return "An error occurred. Please try again.", false
	}
	return reply, true
}

// applyRole rebuilds the family context from the current answers. Called when
// family_role is first accepted and again if role, name, or samaj is
// corrected later.
func (e *Engine) applyRole(sess *session.Session) {
	name := sess.Answers.Value(FieldName)
	samaj := sess.Answers.Value(FieldSamaj)

	if currentRole(sess) == models.RoleHead {
		// The head anchors a brand-new family named after them.
		sess.Answers.Set(FieldFamilyHead, name)
		sess.Family = session.FamilyContext{
			Kind:          session.ContextNew,
			RoleConfirmed: true,
			FamilyName:    name + "'s Family",
			FamilyHead:    name,
			SamajName:     samaj,
			Members: []session.MemberRef{
				{Name: name, Role: string(models.RoleHead), IsHead: true},
			},
		}
		return
	}

	sess.Family = session.FamilyContext{
		Kind:          session.ContextJoining,
		RoleConfirmed: true,
		FamilyHead:    sess.Answers.Value(FieldFamilyHead),
		SamajName:     samaj,
	}
}

func (e *Engine) handleConfirm(ctx context.Context, sess *session.Session, lower string) (string, bool) {
	switch lower {
	case "yes":
		if !sess.Family.RoleConfirmed {
			return msgRoleUnconfirmed, false
		}
		msg, err := e.saver.Save(ctx, sess.Answers, sess.Phone)
		if err != nil {
			// Session stays intact so the user may correct and resend "yes".
			e.logger.WarnContext(ctx, "member save failed", "phone", sess.Phone, "error", err)
			return dErrors.Message(err), false
		}
		if delErr := e.sessions.Delete(ctx, sess.Phone); delErr != nil {
			e.logger.ErrorContext(ctx, "failed to clear session after save", "phone", sess.Phone, "error", delErr)
		}
		e.logger.InfoContext(ctx, "member registered", "phone", sess.Phone)
		return msg, true

	case "no":
		sess.Step = session.StepSelectField
		sess.UpdatedAt = time.Now().UTC()
		if err := e.sessions.Put(ctx, sess); err != nil {
			e.logger.ErrorContext(ctx, "session store write failed", "phone", sess.Phone, "error", err)
			return "An error occurred. Please try again.", false
		}
		return renderCorrectionMenu(sess), true

	default:
		return msgYesOrNo, true
	}
}

func (e *Engine) handleFieldSelection(ctx context.Context, sess *session.Session, raw string) (string, bool) {
	keys := correctableKeys(sess)
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || idx > len(keys) {
		return msgBadMenuChoice + "\n\n" + renderCorrectionMenu(sess), true
	}

	key := keys[idx-1]
	sess.CorrectionField = key
	sess.Step = session.StepCorrectValue
	sess.UpdatedAt = time.Now().UTC()
	if err := e.sessions.Put(ctx, sess); err != nil {
		e.logger.ErrorContext(ctx, "session store write failed", "phone", sess.Phone, "error", err)
		return "An error occurred. Please try again.", false
	}

	return fmt.Sprintf("Current value of %s: %s\nPlease enter the new value:",
		labelFor(key), displayValue(sess.Answers, key)), true
}

func (e *Engine) handleCorrection(ctx context.Context, sess *session.Session, raw string) (string, bool) {
	key := sess.CorrectionField
	if key == "" {
		return msgNoCorrection, false
	}

	value, skipped, err := Validate(key, raw)
	if err != nil {
		e.metrics.RecordValidationFailure(key)
		return dErrors.Message(err), true
	}

	if skipped {
		sess.Answers.SetSkipped(key)
	} else {
		sess.Answers.Set(key, value)
	}

	// Corrections to identity fields ripple into the derived family context.
	switch key {
	case FieldFamilyRole, FieldName, FieldSamaj:
		if sess.Family.RoleConfirmed {
			e.applyRole(sess)
		}
	case FieldFamilyHead:
		sess.Family.FamilyHead = value
	}

	sess.CorrectionField = ""
	sess.Step = session.StepConfirm
	sess.UpdatedAt = time.Now().UTC()
	if err := e.sessions.Put(ctx, sess); err != nil {
		e.logger.ErrorContext(ctx, "session store write failed", "phone", sess.Phone, "error", err)
		return "An error occurred. Please try again.", false
	}
	return renderSummary(sess, true), true
}

// summaryHiddenKeys are rendered in the summary header rather than the
// details list, and family_head is hidden from a head's correction menu
// because it always mirrors their own name.
func summaryHidden(key string) bool {
	switch key {
	case FieldSamaj, FieldName, FieldFamilyRole, FieldFamilyHead:
		return true
	}
	return false
}

func correctableKeys(sess *session.Session) []string {
	isHead := currentRole(sess) == models.RoleHead
	keys := make([]string, 0, len(sess.Answers))
	for _, ans := range sess.Answers {
		if ans.Key == FieldFamilyHead && isHead {
			continue
		}
		keys = append(keys, ans.Key)
	}
	return keys
}

func displayValue(answers session.Answers, key string) string {
	ans, ok := answers.Lookup(key)
	if !ok || ans.Skipped {
		return "(skipped)"
	}
	return ans.Value
}

func renderSummary(sess *session.Session, updated bool) string {
	var b strings.Builder
	if updated {
		b.WriteString("Field updated. Please review your information:\n\n")
	} else {
		b.WriteString("Please review your information:\n\n")
	}

	b.WriteString("Samaj: " + sess.Answers.Value(FieldSamaj) + "\n")
	b.WriteString("Name: " + sess.Answers.Value(FieldName) + "\n")
	b.WriteString("Role: " + sess.Answers.Value(FieldFamilyRole) + "\n")

	if currentRole(sess) == models.RoleHead {
		b.WriteString("Family Name: " + sess.Family.FamilyName + "\n")
	} else {
		b.WriteString("Family Head: " + sess.Answers.Value(FieldFamilyHead) + "\n")
	}

	b.WriteString("\nYour Details:\n")
	for _, ans := range sess.Answers {
		if summaryHidden(ans.Key) || ans.Skipped {
			continue
		}
		b.WriteString(labelFor(ans.Key) + ": " + ans.Value + "\n")
	}

	b.WriteString("\nIs this information correct? (Yes/No)")
	return b.String()
}

func renderCorrectionMenu(sess *session.Session) string {
	var b strings.Builder
	b.WriteString("Which field would you like to correct? Enter the number:\n")
	for i, key := range correctableKeys(sess) {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, labelFor(key), displayValue(sess.Answers, key))
	}
	return strings.TrimRight(b.String(), "\n")
}
