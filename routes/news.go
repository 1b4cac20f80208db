package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"news-rag-backend/internal/logger"
	"news-rag-backend/services"
	"news-rag-backend/utils"
)

func SetupNewsRoutes(router *gin.Engine, chat *services.Chat, ingestor *services.Ingestor) {
	router.GET("/news/trending", func(c *gin.Context) {
		topics, err := chat.Trending(c.Request.Context())
		if err != nil {
			utils.RespondWithInternalError(c, "Something went wrong.", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": len(topics), "topics": topics})
	})

	// Manual ingestion trigger. The run continues past the request;
	// overlap with a scheduled run is rejected, not queued.
	router.POST("/ingest", func(c *gin.Context) {
		if ingestor.Running() {
			utils.RespondWithConflict(c, "an ingestion run is already in progress")
			return
		}

		go func() {
			err := ingestor.RunOnce(context.Background())
			if err != nil && !errors.Is(err, services.ErrRunInProgress) {
				logger.Error("Manual ingestion run failed", "error", err)
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{"status": "ingestion triggered"})
	})
}
