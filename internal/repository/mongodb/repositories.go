package mongodb

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/repository"
)

// NewRepositories creates all repository implementations over one database
func NewRepositories(db *mongo.Database, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Part:       NewPartRepository(db, logger),
		SyncedPart: NewSyncedPartRepository(db, logger),
	}
}
