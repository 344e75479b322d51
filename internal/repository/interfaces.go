package repository

import (
	"context"

	"github.com/yashpatel5000/auto-part/internal/domain"
)

// PartRepository persists raw catalog part snapshots
type PartRepository interface {
	Insert(ctx context.Context, part *domain.RemotePart) error
	GetByID(ctx context.Context, id string) (*domain.RemotePart, error)
}

// SyncedPartRepository persists the remote-id to Shopify-id mapping and the
// last-written product snapshot. Rows are merged on update, never deleted.
type SyncedPartRepository interface {
	List(ctx context.Context) ([]*domain.SyncedPart, error)
	GetByRemoteID(ctx context.Context, remotePartID string) (*domain.SyncedPart, error)
	Insert(ctx context.Context, rec *domain.SyncedPart) error
	// Merge applies a $set-style partial update: fields present in set
	// overwrite, everything else keeps its prior value.
	Merge(ctx context.Context, remotePartID string, set map[string]interface{}) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Part       PartRepository
	SyncedPart SyncedPartRepository
}
