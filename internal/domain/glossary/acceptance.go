package glossary

import (
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Acceptance states
// ─────────────────────────────────────────────────────────────────────────────

// AcceptanceValue is the verdict carried by an acceptance state.
type AcceptanceValue string

const (
	AcceptanceUnvalidated AcceptanceValue = "Unvalidated"
	AcceptanceAccepted    AcceptanceValue = "Accepted"
	AcceptanceRejected    AcceptanceValue = "Rejected"
)

// Valid reports whether v is one of the known verdicts.
func (v AcceptanceValue) Valid() bool {
	switch v {
	case AcceptanceUnvalidated, AcceptanceAccepted, AcceptanceRejected:
		return true
	}
	return false
}

// EntityKind discriminates what an acceptance state is attached to.
type EntityKind string

const (
	EntityConcept    EntityKind = "concept"
	EntityObligation EntityKind = "obligation"
	EntityDocument   EntityKind = "document"
)

// AcceptanceState is one validator's (or one probability model's) verdict on
// a concept or reporting obligation.  Exactly one owner must be set: either
// UserID (a human validator) or ModelName (a classifier).  Each owner holds
// at most one state per entity; re-submitting a verdict overwrites the
// previous one.
type AcceptanceState struct {
	ID         uuid.UUID  `json:"id"`
	EntityKind EntityKind `json:"entity_kind"`
	EntityID   uuid.UUID  `json:"entity_id"`

	// UserID owns the state when it came from a human validator.
	UserID *string `json:"user_id,omitempty"`

	// ModelName owns the state when it came from a probability model.
	ModelName *string `json:"model_name,omitempty"`

	Value AcceptanceValue `json:"value"`

	// Probability is the model's confidence; zero for human verdicts.
	Probability float64 `json:"probability"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the owner exclusivity rule and the verdict vocabulary.
func (a *AcceptanceState) Validate() error {
	hasUser := a.UserID != nil && *a.UserID != ""
	hasModel := a.ModelName != nil && *a.ModelName != ""
	if !hasUser && !hasModel {
		return errors.New(errors.ErrCodeAcceptanceOwnerless,
			"acceptance state must belong to a user or a probability model")
	}
	if hasUser && hasModel {
		return errors.New(errors.ErrCodeAcceptanceDualOwner,
			"acceptance state cannot belong to both a user and a probability model")
	}
	if !a.Value.Valid() {
		return errors.New(errors.ErrCodeValidation, "unknown acceptance value").
			WithDetail(string(a.Value))
	}
	return nil
}

// IsUserState reports whether the state is owned by a human validator.
func (a *AcceptanceState) IsUserState() bool {
	return a.UserID != nil && *a.UserID != ""
}

// NewUserAcceptance builds a human verdict for an entity.
func NewUserAcceptance(kind EntityKind, entityID uuid.UUID, userID string, value AcceptanceValue) *AcceptanceState {
	return &AcceptanceState{
		ID:         uuid.New(),
		EntityKind: kind,
		EntityID:   entityID,
		UserID:     &userID,
		Value:      value,
		UpdatedAt:  time.Now().UTC(),
	}
}

// NewModelAcceptance builds a classifier verdict for an entity.
func NewModelAcceptance(kind EntityKind, entityID uuid.UUID, model string, value AcceptanceValue, probability float64) *AcceptanceState {
	return &AcceptanceState{
		ID:          uuid.New(),
		EntityKind:  kind,
		EntityID:    entityID,
		ModelName:   &model,
		Value:       value,
		Probability: probability,
		UpdatedAt:   time.Now().UTC(),
	}
}

//Personal.AI order the ending
