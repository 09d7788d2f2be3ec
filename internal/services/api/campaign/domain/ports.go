package domain

import (
	"context"

	"github.com/google/uuid"
)

// ServicePort is the campaign lifecycle surface other modules may depend on
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (StatusResp, error)
	GetStatus(ctx context.Context, id uuid.UUID) (StatusResp, error)
	Transition(ctx context.Context, id uuid.UUID, in TransitionInput) (TransitionResp, error)
	AcceptResult(ctx context.Context, id uuid.UUID, in AcceptResultInput) (StatusResp, error)
}
