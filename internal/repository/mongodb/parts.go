package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

type partRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewPartRepository creates the raw-parts snapshot repository
func NewPartRepository(db *mongo.Database, logger *zap.Logger) *partRepository {
	return &partRepository{
		coll:   db.Collection(PartsCollection),
		logger: logger,
	}
}

func (r *partRepository) Insert(ctx context.Context, part *domain.RemotePart) error {
	if _, err := r.coll.InsertOne(ctx, part); err != nil {
		r.logger.Error("Failed to insert raw part", zap.String("part_id", part.ID), zap.Error(err))
		return fmt.Errorf("insert raw part %s: %w", part.ID, err)
	}
	return nil
}

func (r *partRepository) GetByID(ctx context.Context, id string) (*domain.RemotePart, error) {
	var part domain.RemotePart
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&part)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &apperrors.ErrNotFound{Resource: "part", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get raw part", zap.String("part_id", id), zap.Error(err))
		return nil, err
	}
	return &part, nil
}
