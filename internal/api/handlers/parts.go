package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/repository"
	apperrors "github.com/yashpatel5000/auto-part/pkg/errors"
)

// HandleListSyncedParts handles GET /v1/parts: the local mirror of
// everything that has been synced to Shopify.
func HandleListSyncedParts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := repos.SyncedPart.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list synced parts", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":  records,
			"count": len(records),
		})
	}
}

// HandleGetSyncedPart handles GET /v1/parts/:id, looking up the mirror
// record by its remote part id.
func HandleGetSyncedPart(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		rec, err := repos.SyncedPart.GetByRemoteID(c.Request.Context(), id)
		if err != nil {
			var notFound *apperrors.ErrNotFound
			if errors.As(err, &notFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "part not synced"})
				return
			}
			logger.Error("Failed to get synced part", zap.String("part_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}
