package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"curvas/internal/cache"
	apperrors "curvas/internal/errors"
	"curvas/internal/models"
	"curvas/internal/service"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
	}
}

// respondError maps the service sentinels onto HTTP statuses.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.Is(err, apperrors.ErrMatchNotFound),
		apperrors.Is(err, apperrors.ErrCurvaNotFound),
		apperrors.Is(err, apperrors.ErrTicketNotFound),
		apperrors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.Is(err, apperrors.ErrMatchAlreadyFinished),
		apperrors.Is(err, apperrors.ErrMatchNotPending),
		apperrors.Is(err, apperrors.ErrMatchFinished),
		apperrors.Is(err, apperrors.ErrTicketClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.Is(err, apperrors.ErrInvalidSlotQuantity),
		apperrors.Is(err, apperrors.ErrInvalidScore),
		apperrors.Is(err, apperrors.ErrInvalidTicketStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// Match handlers

// CreateMatch - POST /api/matches
func (h *Handlers) CreateMatch(c *gin.Context) {
	var req models.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Matches.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create match", "error", err)
		respondError(c, err, "Failed to create match")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListMatches - GET /api/matches
func (h *Handlers) ListMatches(c *gin.Context) {
	query := c.Query("query")
	date := c.Query("date")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	shouldCache := query == "" && date == ""

	if shouldCache && h.valkeyClient != nil {
		rawJSON, err := h.valkeyClient.GetMatchListRaw(c.Request.Context(), page, pageSize)
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	response, err := h.services.Matches.List(c.Request.Context(), query, date, page, pageSize)
	if err != nil {
		slog.Error("Failed to list matches", "error", err)
		respondError(c, err, "Failed to list matches")
		return
	}

	if shouldCache && h.valkeyClient != nil {
		h.valkeyClient.SetMatchList(c.Request.Context(), page, pageSize, response)
	}

	c.JSON(http.StatusOK, response)
}

// GetMatch - GET /api/matches/:id
func (h *Handlers) GetMatch(c *gin.Context) {
	matchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || matchID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	response, err := h.services.Matches.Detail(c.Request.Context(), matchID)
	if err != nil {
		slog.Error("Failed to get match", "match_id", matchID, "error", err)
		respondError(c, err, "Failed to get match")
		return
	}

	c.JSON(http.StatusOK, response)
}

// StartMatch - PATCH /api/matches/start
func (h *Handlers) StartMatch(c *gin.Context) {
	var req models.StartMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Matches.Start(c.Request.Context(), req.MatchID); err != nil {
		slog.Error("Failed to start match", "match_id", req.MatchID, "error", err)
		respondError(c, err, "Failed to start match")
		return
	}

	c.Status(http.StatusOK)
}

// UpdateScore - PATCH /api/matches/score
func (h *Handlers) UpdateScore(c *gin.Context) {
	var req models.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.services.Matches.UpdateScore(c.Request.Context(), req.MatchID, *req.HomeScore, *req.AwayScore)
	if err != nil {
		slog.Error("Failed to update score", "match_id", req.MatchID, "error", err)
		respondError(c, err, "Failed to update score")
		return
	}

	c.Status(http.StatusOK)
}

// EndMatch - PATCH /api/matches/end
func (h *Handlers) EndMatch(c *gin.Context) {
	var req models.EndMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Matches.End(c.Request.Context(), req.MatchID)
	if err != nil {
		slog.Error("Failed to end match", "match_id", req.MatchID, "error", err)
		respondError(c, err, "Failed to end match")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Curva handlers

// ListCurvas - GET /api/curvas?match_id=
func (h *Handlers) ListCurvas(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Query("match_id"), 10, 64)
	if matchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "match_id is required"})
		return
	}

	response, err := h.services.Matches.Curvas(c.Request.Context(), matchID)
	if err != nil {
		slog.Error("Failed to list curvas", "match_id", matchID, "error", err)
		respondError(c, err, "Failed to list curvas")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Ticket handlers

// PurchaseTicket - POST /api/tickets
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	var req models.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Tickets.Purchase(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to purchase ticket", "match_id", req.MatchID, "error", err)
		respondError(c, err, "Failed to purchase ticket")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListTickets - GET /api/tickets
func (h *Handlers) ListTickets(c *gin.Context) {
	filter := service.TicketFilter{UserID: 1, CurvaID: c.Query("curva_id")}
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(int64); ok {
			filter.UserID = id
		}
	}
	if raw := c.Query("match_id"); raw != "" {
		matchID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match_id"})
			return
		}
		filter.MatchID = matchID
	}

	response, err := h.services.Tickets.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Failed to list tickets", "error", err)
		respondError(c, err, "Failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ChangeTicketStatus - PATCH /api/tickets/status
func (h *Handlers) ChangeTicketStatus(c *gin.Context) {
	var req models.ChangeTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Tickets.ChangeStatus(c.Request.Context(), &req); err != nil {
		slog.Error("Failed to change ticket status", "ticket_id", req.TicketID, "error", err)
		respondError(c, err, "Failed to change ticket status")
		return
	}

	c.Status(http.StatusOK)
}

// InitiatePayment - PATCH /api/tickets/initiatePayment
func (h *Handlers) InitiatePayment(c *gin.Context) {
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentURL, err := h.services.Tickets.InitiatePayment(c.Request.Context(), req.TicketID)
	if err != nil {
		slog.Error("Failed to initiate payment", "ticket_id", req.TicketID, "error", err)
		respondError(c, err, "Failed to initiate payment")
		return
	}

	c.Header("Location", paymentURL)
	c.Status(http.StatusFound)
}

// Payment handlers

// NotifyPaymentCompleted - GET /api/payments/success
func (h *Handlers) NotifyPaymentCompleted(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	if err := h.services.Tickets.ResolvePaymentRedirect(c.Request.Context(), orderID, true); err != nil {
		slog.Error("Failed to apply payment success", "order_id", orderID, "error", err)
		respondError(c, err, "Failed to apply payment result")
		return
	}

	c.Status(http.StatusOK)
}

// NotifyPaymentFailed - GET /api/payments/fail
func (h *Handlers) NotifyPaymentFailed(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	if err := h.services.Tickets.ResolvePaymentRedirect(c.Request.Context(), orderID, false); err != nil {
		slog.Error("Failed to apply payment failure", "order_id", orderID, "error", err)
		respondError(c, err, "Failed to apply payment result")
		return
	}

	c.Status(http.StatusOK)
}

// OnPaymentUpdates - POST /api/payments/notifications
func (h *Handlers) OnPaymentUpdates(c *gin.Context) {
	var notification models.PaymentNotificationPayload
	if err := c.ShouldBindJSON(&notification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Tickets.HandlePaymentNotification(c.Request.Context(), &notification); err != nil {
		slog.Error("Failed to handle payment notification", "error", err)
		respondError(c, err, "Failed to handle notification")
		return
	}

	c.Status(http.StatusOK)
}
