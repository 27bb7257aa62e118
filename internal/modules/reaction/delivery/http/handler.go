package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nga.at/communityforum/internal/modules/reaction/dto"
	reaction "nga.at/communityforum/internal/modules/reaction/service"
	"nga.at/communityforum/pkg/apperror"
	"nga.at/communityforum/pkg/response"
	"nga.at/communityforum/pkg/validator"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func (h *ReactionHandler) ToggleReaction(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.BadRequest(validator.FormatValidationError(err)))
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReactionHandler) GetReactions(c *gin.Context) {
	targetType := c.Param("targetType")
	targetID, err := uuid.Parse(c.Param("targetID"))
	if err != nil {
		response.Error(c, apperror.BadRequest("invalid target id"))
		return
	}

	userID := response.GetOptionalUserID(c)

	reactions, err := h.service.GetReactions(c.Request.Context(), userID, targetType, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, reactions)
}
