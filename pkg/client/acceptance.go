package client

import (
	"context"
	"fmt"
	"time"

	"github.com/regcat-io/regcat/pkg/errors"
)

// AcceptanceState is one per-user or model verdict on an entity.
type AcceptanceState struct {
	ID          string    `json:"id"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    string    `json:"entity_id"`
	UserID      *string   `json:"user_id,omitempty"`
	ModelName   *string   `json:"model_name,omitempty"`
	Value       string    `json:"value"`
	Probability float64   `json:"probability"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AcceptanceClient provides access to acceptance verdict endpoints.
type AcceptanceClient struct {
	client *Client
}

// Values returns the verdict vocabulary the API accepts.
// GET /api/v1/acceptance/values
func (ac *AcceptanceClient) Values(ctx context.Context) ([]string, error) {
	var values []string
	if err := ac.client.get(ctx, "/api/v1/acceptance/values", &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Get lists the verdicts recorded on one entity.  Kind is "concept",
// "obligation" or "document".
// GET /api/v1/acceptance/{entityKind}/{entityID}
func (ac *AcceptanceClient) Get(ctx context.Context, kind, entityID string) ([]AcceptanceState, error) {
	if kind == "" || entityID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "entity kind and id are required")
	}

	var states []AcceptanceState
	if err := ac.client.get(ctx, fmt.Sprintf("/api/v1/acceptance/%s/%s", kind, entityID), &states); err != nil {
		return nil, err
	}
	return states, nil
}

// Set records the acting user's verdict on one entity.
// POST /api/v1/acceptance/{entityKind}/{entityID}
func (ac *AcceptanceClient) Set(ctx context.Context, kind, entityID, value string) error {
	if kind == "" || entityID == "" {
		return errors.New(errors.ErrCodeValidation, "entity kind and id are required")
	}
	if value == "" {
		return errors.New(errors.ErrCodeValidation, "verdict value is required")
	}

	body := map[string]string{"value": value}
	return ac.client.post(ctx, fmt.Sprintf("/api/v1/acceptance/%s/%s", kind, entityID), body, nil)
}

//Personal.AI order the ending
