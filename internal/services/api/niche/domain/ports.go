package domain

import "context"

// ServicePort is the niche analysis surface other modules may depend on
type ServicePort interface {
	Validate(ctx context.Context, in ValidateInput) (ValidateResp, error)
	Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResp, error)
}
