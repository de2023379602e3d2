package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message"`
	Action    string `json:"action,omitempty"` // defaults to "message"
	UserId    string `json:"user_id,omitempty"`
}

type SendMessageResponse struct {
	SessionId   string                 `json:"session_id"`
	Text        string                 `json:"text"`
	NextStep    string                 `json:"next_step,omitempty"`
	Options     []string               `json:"options,omitempty"`
	UIHints     map[string]interface{} `json:"ui_hints,omitempty"`
	CurrentFlow string                 `json:"current_flow"`
	StepInFlow  int                    `json:"step_in_flow"`
	Urgency     string                 `json:"urgency"`
}

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}

type ChatHistoryEntry struct {
	Id        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type GetChatHistoryResponse struct {
	SessionId   string             `json:"session_id"`
	CurrentFlow string             `json:"current_flow"`
	StepInFlow  int                `json:"step_in_flow"`
	Messages    []ChatHistoryEntry `json:"messages"`
}
