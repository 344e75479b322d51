package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashpatel5000/auto-part/internal/domain"
	"github.com/yashpatel5000/auto-part/internal/service"
)

// HandleWebhook handles POST /webhook: the parts catalog's status-change
// events. The reactor swallows downstream failures, so a 500 here means the
// request itself could not be dispatched, nothing more.
func HandleWebhook(reactor *service.WebhookReactor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event domain.WebhookEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			logger.Error("Webhook body unreadable", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		reactor.Handle(c.Request.Context(), event)

		c.JSON(http.StatusOK, gin.H{"message": "Part status changed successfully."})
	}
}
