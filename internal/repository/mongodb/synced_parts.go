package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

type syncedPartRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewSyncedPartRepository creates the synced-part mirror repository
func NewSyncedPartRepository(db *mongo.Database, logger *zap.Logger) *syncedPartRepository {
	return &syncedPartRepository{
		coll:   db.Collection(SyncedPartsCollection),
		logger: logger,
	}
}

// List loads the full mirror. The sync engine uses it as the existence and
// diff oracle for a whole run, so the snapshot must fit in memory.
func (r *syncedPartRepository) List(ctx context.Context) ([]*domain.SyncedPart, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list synced parts: %w", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			r.logger.Warn("Failed to close synced-parts cursor", zap.Error(cerr))
		}
	}()

	out := make([]*domain.SyncedPart, 0)
	for cur.Next(ctx) {
		var rec domain.SyncedPart
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode synced part: %w", err)
		}
		out = append(out, &rec)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("synced parts cursor: %w", err)
	}
	return out, nil
}

func (r *syncedPartRepository) GetByRemoteID(ctx context.Context, remotePartID string) (*domain.SyncedPart, error) {
	var rec domain.SyncedPart
	err := r.coll.FindOne(ctx, bson.M{"rrr_partId": remotePartID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &apperrors.ErrNotFound{Resource: "synced_part", ID: remotePartID}
	}
	if err != nil {
		r.logger.Error("Failed to get synced part", zap.String("part_id", remotePartID), zap.Error(err))
		return nil, err
	}
	return &rec, nil
}

func (r *syncedPartRepository) Insert(ctx context.Context, rec *domain.SyncedPart) error {
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		r.logger.Error("Failed to insert synced part", zap.String("part_id", rec.RemotePartID), zap.Error(err))
		return fmt.Errorf("insert synced part %s: %w", rec.RemotePartID, err)
	}
	return nil
}

// Merge applies a partial update: only the given fields are overwritten,
// the rest of the document keeps its prior values.
func (r *syncedPartRepository) Merge(ctx context.Context, remotePartID string, set map[string]interface{}) error {
	if len(set) == 0 {
		return nil
	}
	fields := bson.M{"updatedAt": time.Now()}
	for k, v := range set {
		fields[k] = v
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"rrr_partId": remotePartID}, bson.M{"$set": fields})
	if err != nil {
		r.logger.Error("Failed to merge synced part", zap.String("part_id", remotePartID), zap.Error(err))
		return fmt.Errorf("merge synced part %s: %w", remotePartID, err)
	}
	if res.MatchedCount == 0 {
		return &apperrors.ErrNotFound{Resource: "synced_part", ID: remotePartID}
	}
	return nil
}
