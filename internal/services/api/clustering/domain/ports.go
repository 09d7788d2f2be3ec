package domain

import "context"

// ServicePort is the clustering surface other modules may depend on
type ServicePort interface {
	Execute(ctx context.Context, in ExecuteInput) (ExecuteResp, error)
}
