// Package session owns the ephemeral per-phone conversation state and the
// stores that hold it. Sessions never outlive the process guarantees of the
// chosen store; the conversation engine is their only writer.
package session

import (
	"context"
	"time"

	dErrors "samajsetu/pkg/domain-errors"
)

// Step indexes the conversation state machine. Values in [0, len(fields))
// collect one field each; the named constants cover everything else.
type Step int

const (
	StepUninitialized Step = -1

	// Review states sit well above any field index so a growing field list
	// can never collide with them.
	StepConfirm      Step = 1000
	StepSelectField  Step = 1001
	StepCorrectValue Step = 1002
)

// Answer is one accepted field value. Skipped optional fields keep their
// position in the sequence but carry no value.
type Answer struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Answers preserves insertion order, which doubles as question order for the
// review summary and the correction menu.
type Answers []Answer

// Set stores a value under key, overwriting in place if the key exists.
func (a *Answers) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			(*a)[i].Skipped = false
			return
		}
	}
	*a = append(*a, Answer{Key: key, Value: value})
}

// SetSkipped records that an optional field was explicitly skipped.
func (a *Answers) SetSkipped(key string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = ""
			(*a)[i].Skipped = true
			return
		}
	}
	*a = append(*a, Answer{Key: key, Skipped: true})
}

// Lookup returns the stored answer for key.
func (a Answers) Lookup(key string) (Answer, bool) {
	for _, ans := range a {
		if ans.Key == key {
			return ans, true
		}
	}
	return Answer{}, false
}

// Value returns the stored value for key, or "" when absent or skipped.
func (a Answers) Value(key string) string {
	ans, ok := a.Lookup(key)
	if !ok || ans.Skipped {
		return ""
	}
	return ans.Value
}

// ContextKind tags the family context as either originating a new family or
// joining an existing one.
type ContextKind string

const (
	ContextNew     ContextKind = "new_family"
	ContextJoining ContextKind = "joining_family"
)

// MemberRef is a display-only reference used in the review summary. It is
// never the authority for relationship checks; persistence queries the store.
type MemberRef struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	IsHead bool   `json:"is_head"`
}

// FamilyContext captures the role-dependent half of the session.
type FamilyContext struct {
	Kind          ContextKind `json:"kind"`
	RoleConfirmed bool        `json:"role_confirmed"`
	FamilyName    string      `json:"family_name,omitempty"`
	FamilyHead    string      `json:"family_head,omitempty"`
	SamajName     string      `json:"samaj_name,omitempty"`
	Members       []MemberRef `json:"members,omitempty"`
}

func (c FamilyContext) IsNewFamily() bool { return c.Kind == ContextNew }

// Session is the complete conversational state for one phone number.
type Session struct {
	Phone           string        `json:"phone"`
	Step            Step          `json:"step"`
	Answers         Answers       `json:"answers"`
	Family          FamilyContext `json:"family"`
	CorrectionField string        `json:"correction_field,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// New returns a session positioned at the first question.
func New(phone string) *Session {
	now := time.Now().UTC()
	return &Session{
		Phone:     phone,
		Step:      0,
		Answers:   Answers{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ErrNotFound is returned by stores when no session exists for a phone.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "session not found")

// Store is the injected key-value abstraction over sessions. Implementations
// must make Get/Put/Delete atomic per key; Get returns an independent copy so
// mutations only take effect once Put is called.
type Store interface {
	Get(ctx context.Context, phone string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, phone string) error
}
