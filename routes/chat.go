package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"news-rag-backend/models"
	"news-rag-backend/services"
	"news-rag-backend/utils"
)

func SetupChatRoutes(router *gin.Engine, chat *services.Chat) {
	router.POST("/chat/:sessionId", func(c *gin.Context) {
		sessionID := c.Param("sessionId")

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "query is required", gin.H{"error": err.Error()})
			return
		}

		answer, err := chat.HandleQuery(c.Request.Context(), sessionID, req.Query)
		if err != nil {
			if errors.Is(err, models.ErrEmptyQuery) {
				utils.RespondWithBadRequest(c, "query must not be empty", nil)
				return
			}
			utils.RespondWithInternalError(c, "Something went wrong.", nil)
			return
		}

		c.JSON(http.StatusOK, models.ChatResponse{SessionID: sessionID, Answer: answer})
	})

	router.GET("/history/:sessionId", func(c *gin.Context) {
		sessionID := c.Param("sessionId")

		turns, err := chat.History(c.Request.Context(), sessionID)
		if err != nil {
			utils.RespondWithInternalError(c, "Something went wrong.", nil)
			return
		}

		c.JSON(http.StatusOK, models.HistoryResponse{SessionID: sessionID, Messages: turns})
	})

	router.DELETE("/reset/:sessionId", func(c *gin.Context) {
		sessionID := c.Param("sessionId")

		if err := chat.ClearSession(c.Request.Context(), sessionID); err != nil {
			utils.RespondWithInternalError(c, "Something went wrong.", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "session cleared", "session_id": sessionID})
	})
}
