package ports

import (
	"context"

	estimatetypes "github.com/verdavida/lawncare/internal/domains/estimates/application/types"
)

// Service defines the estimate use cases exposed to adapters.
type Service interface {
	CreateEstimate(ctx context.Context, input estimatetypes.CreateEstimateInput) (*estimatetypes.EstimateProjection, error)
	SendEstimate(ctx context.Context, id int64) (*estimatetypes.EstimateProjection, error)
	GetEstimate(ctx context.Context, id int64) (*estimatetypes.EstimateProjection, error)
	ListJobs(ctx context.Context, input estimatetypes.ListJobsInput) ([]*estimatetypes.EstimateProjection, error)
	CompleteJob(ctx context.Context, input estimatetypes.CompleteJobInput) (*estimatetypes.EstimateProjection, error)
	ExpireOverdue(ctx context.Context) (int, error)
}
