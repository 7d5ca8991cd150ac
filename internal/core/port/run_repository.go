package port

import (
	"context"

	"github.com/ludaimi/passforge/internal/core/domain"
)

// RunRepository persists provisioning run audit records.
type RunRepository interface {
	Create(ctx context.Context, run domain.ProvisioningRun) error
	GetByID(ctx context.Context, id string) (*domain.ProvisioningRun, error)
	ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.ProvisioningRun, error)
}
