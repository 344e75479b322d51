package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	"github.com/yashpatel5000/auto-part/internal/repository"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// restockDelta is the fixed quantity added when a part comes back to the
// supplier's warehouse.
const restockDelta = 1

// InventoryGateway is the slice of the commerce surface the reactor needs.
type InventoryGateway interface {
	DefaultLocationID(ctx context.Context) (string, error)
	AvailableQuantity(ctx context.Context, inventoryItemID string) (int, error)
	AdjustInventory(ctx context.Context, inventoryItemID, locationID string, delta int) error
}

// WebhookReactor reacts to inbound part.status.changed events by adjusting
// the part's inventory level. Failures here are logged with the originating
// part id and swallowed: a webhook must never bounce back to the catalog.
type WebhookReactor struct {
	gateway InventoryGateway
	store   repository.SyncedPartRepository
	logger  *zap.Logger
}

// NewWebhookReactor creates a webhook reactor
func NewWebhookReactor(gateway InventoryGateway, store repository.SyncedPartRepository, logger *zap.Logger) *WebhookReactor {
	return &WebhookReactor{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
}

// Handle processes one inbound event. Event types other than
// part.status.changed are ignored silently; unknown part ids are logged and
// ignored.
func (r *WebhookReactor) Handle(ctx context.Context, event domain.WebhookEvent) {
	if event.EventType != "part.status.changed" {
		return
	}

	partID := event.EventData.PartID
	rec, err := r.store.GetByRemoteID(ctx, partID)
	if err != nil {
		var notFound *apperrors.ErrNotFound
		if errors.As(err, &notFound) {
			r.logger.Info("Webhook for unknown part, ignoring", zap.String("part_id", partID))
			return
		}
		r.logger.Error("Webhook store lookup failed", zap.String("part_id", partID), zap.Error(err))
		return
	}

	if strings.ToLower(event.EventData.Status) == domain.WebhookStatusInWarehouse {
		r.restock(ctx, partID, rec)
		return
	}
	r.zeroOut(ctx, partID, rec)
}

func (r *WebhookReactor) restock(ctx context.Context, partID string, rec *domain.SyncedPart) {
	locationID, err := r.gateway.DefaultLocationID(ctx)
	if err != nil {
		r.logger.Error("Webhook failed to resolve location", zap.String("part_id", partID), zap.Error(err))
		return
	}
	if err := r.gateway.AdjustInventory(ctx, rec.InventoryItemID, locationID, restockDelta); err != nil {
		r.logger.Error("Webhook failed to restock part", zap.String("part_id", partID), zap.Error(err))
		return
	}
	r.logger.Info("Part restocked", zap.String("part_id", partID), zap.Int("delta", restockDelta))
}

// zeroOut reads the current available quantity and applies its negation, so
// a sold or withdrawn part drops to exactly zero regardless of its level.
func (r *WebhookReactor) zeroOut(ctx context.Context, partID string, rec *domain.SyncedPart) {
	quantity, err := r.gateway.AvailableQuantity(ctx, rec.InventoryItemID)
	if err != nil {
		r.logger.Error("Webhook failed to read inventory level", zap.String("part_id", partID), zap.Error(err))
		return
	}
	locationID, err := r.gateway.DefaultLocationID(ctx)
	if err != nil {
		r.logger.Error("Webhook failed to resolve location", zap.String("part_id", partID), zap.Error(err))
		return
	}
	if err := r.gateway.AdjustInventory(ctx, rec.InventoryItemID, locationID, -quantity); err != nil {
		r.logger.Error("Webhook failed to zero inventory", zap.String("part_id", partID), zap.Error(err))
		return
	}
	r.logger.Info("Part inventory zeroed", zap.String("part_id", partID), zap.Int("delta", -quantity))
}
