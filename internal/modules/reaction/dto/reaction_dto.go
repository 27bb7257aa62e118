package dto

import "github.com/google/uuid"

type ToggleReactionRequest struct {
	TargetType   string    `json:"target_type" binding:"required,oneof=post comment"`
	TargetID     uuid.UUID `json:"target_id" binding:"required"`
	ReactionType string    `json:"reaction_type" binding:"required,max=20"`
}

type ToggleReactionResponse struct {
	Action       string    `json:"action"` // "added", "changed" or "removed"
	TargetType   string    `json:"target_type"`
	TargetID     uuid.UUID `json:"target_id"`
	ReactionType string    `json:"reaction_type"`
}
