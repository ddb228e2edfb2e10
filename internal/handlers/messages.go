package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/types"
	"github.com/freee021022/onco/internal/utils"
)

// MessagePush is written to the sender's and receiver's sockets when a
// message is created.
type MessagePush struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

func (h *Handler) GetMessages(ctx *gin.Context) {
	userID, ok := utils.GetQueryID(ctx, "userId")
	if !ok {
		badRequest(ctx, "User ID required")
		return
	}

	messages, err := h.store.GetMessages(ctx.Request.Context(), userID)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

func (h *Handler) GetConversation(ctx *gin.Context) {
	user1ID, ok1 := utils.GetQueryID(ctx, "user1Id")
	user2ID, ok2 := utils.GetQueryID(ctx, "user2Id")
	if !ok1 || !ok2 {
		badRequest(ctx, "Both user IDs required")
		return
	}

	messages, err := h.store.GetConversation(ctx.Request.Context(), user1ID, user2ID)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

func (h *Handler) CreateMessage(ctx *gin.Context) {
	var body types.InsertMessage

	if err := bindJSON(ctx, &body, "Invalid message data"); err != nil {
		fail(ctx, err)
		return
	}

	message := body.Model()
	if err := h.store.CreateMessage(ctx.Request.Context(), &message); err != nil {
		fail(ctx, err)
		return
	}

	if h.hub != nil {
		h.hub.SendTo(MessagePush{Type: "message", Message: &message}, message.SenderID, message.ReceiverID)
	}
	h.publish(ctx.Request.Context(), events.MessageSent, strconv.FormatUint(uint64(message.ReceiverID), 10), &message)

	ctx.JSON(http.StatusCreated, message)
}

func (h *Handler) MarkMessageAsRead(ctx *gin.Context) {
	messageID, err := utils.GetParamID(ctx, "id")
	if err != nil {
		badRequest(ctx, "Invalid message ID")
		return
	}

	if err := h.store.MarkMessageAsRead(ctx.Request.Context(), messageID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
