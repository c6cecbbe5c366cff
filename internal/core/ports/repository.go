package ports

import (
	"context"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// PlaylistRepository stores generated playlists so they can be fetched and exported later.
type PlaylistRepository interface {
	GetByID(ctx context.Context, id string) (domain.Playlist, error)
	Save(ctx context.Context, p domain.Playlist) error
}
