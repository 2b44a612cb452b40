package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"

	"gamehub/topup-service/internal/events"
	"gamehub/topup-service/internal/fees"
	"gamehub/topup-service/internal/schedule"
	"gamehub/topup-service/internal/topup"
)

// ScheduleSource reports the fee schedule in force.
type ScheduleSource interface {
	Current() schedule.Current
}

// Subscriber streams a user's published session snapshots.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan *redis.Message, func() error)
}

type Handler struct {
	topups    *topup.Manager
	schedules ScheduleSource
	events    Subscriber
}

func New(topups *topup.Manager, schedules ScheduleSource, events Subscriber) *Handler {
	return &Handler{topups: topups, schedules: schedules, events: events}
}

// Register mounts the top-up routes on r. Callers put authentication in
// front so that c.Locals("userId") is set.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/quote", h.Quote)
	r.Get("/schedule", h.Schedule)
	r.Post("/sessions", h.StartSession)
	r.Get("/sessions/current", h.CurrentSession)
	r.Post("/sessions/current/checkout", h.ReportCheckout)
	r.Post("/sessions/current/check", h.CheckAgain)
	r.Delete("/sessions/current", h.DiscardSession)
}

// Quote prices a top-up without starting one.
// POST /api/v1/topup/quote
func (h *Handler) Quote(c *fiber.Ctx) error {
	var body struct {
		NetAmount int64 `json:"netAmount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	breakdown, err := h.topups.Quote(body.NetAmount)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(quoteResponse(breakdown))
}

// Schedule returns the fee schedule and amount limits in force.
// GET /api/v1/topup/schedule
func (h *Handler) Schedule(c *fiber.Ctx) error {
	cur := h.schedules.Current()
	s := cur.Calculator.Schedule
	return c.JSON(fiber.Map{
		"percentageFee":          s.PercentageFee.String(),
		"flatFee":                s.FlatFee,
		"flatFeeWaiverThreshold": s.FlatFeeWaiverThreshold,
		"feeCap":                 s.FeeCap,
		"minAmount":              cur.Calculator.MinAmount,
		"maxAmount":              cur.Calculator.MaxAmount,
		"source":                 cur.Source,
		"scheduleId":             cur.ScheduleID,
	})
}

// StartSession prices the amount, obtains a payment reference and opens checkout.
// POST /api/v1/topup/sessions
func (h *Handler) StartSession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	var body topup.StartRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	snap, err := h.topups.For(userID).Start(c.UserContext(), body)
	if err != nil {
		log.Printf("[topup][http] start user=%s net=%d: %v", userID, body.NetAmount, err)
		return sessionError(c, snap, err)
	}
	return c.Status(http.StatusCreated).JSON(snap)
}

// CurrentSession returns the user's session, or an idle one.
// GET /api/v1/topup/sessions/current
func (h *Handler) CurrentSession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)
	return c.JSON(h.topups.For(userID).Current())
}

// ReportCheckout relays the gateway's checkout callback from the client.
// POST /api/v1/topup/sessions/current/checkout
func (h *Handler) ReportCheckout(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)

	var body topup.CheckoutResult
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	snap, err := h.topups.For(userID).HandleCheckout(c.UserContext(), body)
	if err != nil {
		return sessionError(c, snap, err)
	}
	return c.Status(http.StatusAccepted).JSON(snap)
}

// CheckAgain re-verifies a session still pending at the backend.
// POST /api/v1/topup/sessions/current/check
func (h *Handler) CheckAgain(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)
	snap, err := h.topups.For(userID).CheckAgain(c.UserContext())
	if err != nil {
		return sessionError(c, snap, err)
	}
	return c.JSON(snap)
}

// DiscardSession drops the user's session. A charge already submitted is not
// cancelled.
// DELETE /api/v1/topup/sessions/current
func (h *Handler) DiscardSession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(string)
	return c.JSON(h.topups.For(userID).Discard(c.UserContext()))
}

// TopUpWebSocket pushes the user's session snapshots as they change.
// GET /ws/topup (upgraded to WS)
func (h *Handler) TopUpWebSocket(c *websocket.Conn) {
	userID := c.Locals("userId").(string)

	ch, closeSub := h.events.Subscribe(context.Background(), userID)
	defer closeSub()

	if data, err := events.Encode(h.topups.For(userID).Current()); err == nil {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	for msg := range ch {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
			break
		}
	}
}

func quoteResponse(b fees.ChargeBreakdown) fiber.Map {
	return fiber.Map{
		"netAmount":            b.NetAmount,
		"grossAmount":          b.GrossAmount,
		"totalFee":             b.TotalFee,
		"percentageFeePortion": b.PercentageFeePortion,
		"flatFeePortion":       b.FlatFeePortion,
		"feeCapApplied":        b.FeeCapApplied,
		"walletReceives":       b.WalletReceives(),
	}
}

func sessionError(c *fiber.Ctx, snap topup.Snapshot, err error) error {
	body := fiber.Map{
		"error":     err.Error(),
		"retryable": topup.Retryable(err),
	}
	if snap.State != "" {
		body["session"] = snap
	}
	return c.Status(statusFor(err)).JSON(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, topup.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, topup.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, topup.ErrSessionActive),
		errors.Is(err, topup.ErrSessionDiscarded),
		errors.Is(err, topup.ErrStaleReference),
		errors.Is(err, topup.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, topup.ErrUnreconcilableFee):
		return http.StatusUnprocessableEntity
	case errors.Is(err, topup.ErrReferenceIssuanceFailed),
		errors.Is(err, topup.ErrVerificationUnreachable):
		return http.StatusBadGateway
	case errors.Is(err, topup.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
