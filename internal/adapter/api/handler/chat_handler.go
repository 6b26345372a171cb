package handler

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/usecase"
	"campusbooks/pkg/response"
	"campusbooks/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
	feed        *usecase.ConversationFeed
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, feed *usecase.ConversationFeed) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
		feed:        feed,
	}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Text        string `json:"text" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		RecipientID: req.RecipientID,
		Text:        req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetMessages returns the conversation with the user named in the path, in
// ascending timestamp order.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	otherUserID := c.Param("userId")
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, otherUserID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

// GetConversations is the pull half of the conversation feed; the WebSocket
// poller pushes the same rows on an interval. An index-building condition
// comes back as 503 INDEX_BUILDING so clients keep showing the transient
// notice and retry.
func (h *ChatHandler) GetConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	rows, err := h.feed.Conversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rows)
}
