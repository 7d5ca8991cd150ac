package port

import (
	"context"

	"github.com/ludaimi/passforge/internal/core/domain"
)

// ProfileRepository persists charset profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByName(ctx context.Context, name string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	Update(ctx context.Context, profile domain.Profile) error
	Delete(ctx context.Context, id string) error
}
