package pdpHandler

import (
	"ProjectKwik/internal/api/pdp"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/handlerUtil"
	"ProjectKwik/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// authenticate resolves the calling merchant from the API key header.
// Public tracking endpoints never see a JWT, the embed script only
// carries the merchant key.
func (h *PdpHandler) authenticate(c context.Context, ctx *fiber.Ctx) (entity.Merchant, error) {
	apiKey := ctx.Get(HeaderAPIKey)
	if apiKey == "" {
		return entity.Merchant{}, errors.New("missing API key")
	}

	return h.merchantService.GetMerchantByAPIKey(c, apiKey)
}

func (h *PdpHandler) Poll(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	merchant, err := h.authenticate(c, ctx)
	if err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Warn("Rejected poll with invalid API key")
		return errHandler.HandleUnauthorized(ctx, requestID, "Invalid API key")
	}

	var req pdp.PollRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.pdpService.Poll(c, merchant.ID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "poll")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *PdpHandler) RecordInteraction(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	merchant, err := h.authenticate(c, ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Invalid API key")
	}

	var req pdp.InteractionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.pdpService.RecordInteraction(c, merchant.ID, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "record_interaction")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Interaction recorded",
		})
	}
}

func (h *PdpHandler) RecordConversion(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	merchant, err := h.authenticate(c, ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Invalid API key")
	}

	sessionID := ctx.Params("sessionId")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("session ID is required"), ctx.Path())
	}

	var req pdp.ConversionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.pdpService.RecordConversion(c, merchant.ID, sessionID, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "record_conversion")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Conversion recorded",
		})
	}
}

func (h *PdpHandler) TrackEvent(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	merchant, err := h.authenticate(c, ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Invalid API key")
	}

	var req pdp.EventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.pdpService.TrackEvent(c, merchant.ID, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "track_event")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Event recorded",
		})
	}
}

func (h *PdpHandler) GetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	merchant, err := h.authenticate(c, ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Invalid API key")
	}

	sessionID := ctx.Params("sessionId")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("session ID is required"), ctx.Path())
	}

	detection, events, err := h.pdpService.GetSession(c, merchant.ID, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"detection": detection,
			"events":    events,
		})
	}
}
