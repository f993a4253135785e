package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/maisonessence/parfumerie-backend/internal/catalog"
)

// FavoriteDTO is one saved perfume with its annotated catalog view.
type FavoriteDTO struct {
	ID        uuid.UUID          `json:"id"`
	PerfumeID uuid.UUID          `json:"perfume_id"`
	Perfume   catalog.PerfumeDTO `json:"perfume"`
	CreatedAt time.Time          `json:"created_at"`
}

// AddFavoritePayload marks one perfume as favorite.
type AddFavoritePayload struct {
	PerfumeID string `json:"perfume_id" validate:"required,uuid"`
}

// FavoriteStatusDTO answers the is-favorite check.
type FavoriteStatusDTO struct {
	PerfumeID  uuid.UUID `json:"perfume_id"`
	IsFavorite bool      `json:"is_favorite"`
}
