package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime"
	"github.com/coursora/coursora-backend/internal/requestdata"
	"github.com/coursora/coursora-backend/internal/services"
)

type SSEHandler struct {
	log       *logger.Logger
	hub       *realtime.SSEHub
	ownership services.OwnershipService

	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient // key: operator ID
}

func NewSSEHandler(log *logger.Logger, hub *realtime.SSEHub, ownership services.OwnershipService) *SSEHandler {
	return &SSEHandler{
		log:       log.With("handler", "SSEHandler"),
		hub:       hub,
		ownership: ownership,
		clients:   make(map[uuid.UUID]*realtime.SSEClient),
	}
}

func (h *SSEHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.OperatorID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	operatorID := rd.OperatorID

	h.mu.Lock()
	// One stream per operator; a reconnect replaces the old client.
	if existing, ok := h.clients[operatorID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, operatorID)
	}
	client := h.hub.NewSSEClient(operatorID)
	h.clients[operatorID] = client
	h.mu.Unlock()

	// Every stream starts on the operator's own channel; institution channels
	// are opt-in via subscribe.
	h.hub.AddChannel(client, realtime.OperatorChannel(operatorID))

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	// A reconnect may already have replaced and closed this client; only drop
	// the registration if it is still ours.
	h.mu.Lock()
	if h.clients[operatorID] == client {
		delete(h.clients, operatorID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

func (h *SSEHandler) SSESubscribe(c *gin.Context) {
	operatorID, client, channel, ok := h.resolveSubscription(c)
	if !ok {
		return
	}
	if !h.channelAllowed(c, operatorID, channel) {
		c.JSON(http.StatusForbidden, gin.H{"error": "channel not owned"})
		return
	}
	h.hub.AddChannel(client, channel)
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": channel})
}

func (h *SSEHandler) SSEUnsubscribe(c *gin.Context) {
	_, client, channel, ok := h.resolveSubscription(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, channel)
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": channel})
}

func (h *SSEHandler) resolveSubscription(c *gin.Context) (uuid.UUID, *realtime.SSEClient, string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.OperatorID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return uuid.Nil, nil, "", false
	}

	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return uuid.Nil, nil, "", false
	}

	h.mu.RLock()
	client, exists := h.clients[rd.OperatorID]
	h.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this operator"})
		return uuid.Nil, nil, "", false
	}
	return rd.OperatorID, client, req.Channel, true
}

func (h *SSEHandler) channelAllowed(c *gin.Context, operatorID uuid.UUID, channel string) bool {
	if channel == realtime.OperatorChannel(operatorID) {
		return true
	}
	raw, ok := strings.CutPrefix(channel, "institution:")
	if !ok {
		return false
	}
	institutionID, err := uuid.Parse(raw)
	if err != nil {
		return false
	}
	instIDs, err := h.ownership.InstitutionIDs(c.Request.Context(), operatorID)
	if err != nil {
		h.log.Warn("ownership check failed", "operator_id", operatorID, "error", err)
		return false
	}
	for _, id := range instIDs {
		if id == institutionID {
			return true
		}
	}
	return false
}
