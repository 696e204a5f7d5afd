package intentRuleHandler

import (
	"ProjectKwik/internal/api/intentrule"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/handlerUtil"
	jwtPkg "ProjectKwik/pkg/jwt"
	"ProjectKwik/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *IntentRuleHandler) CreateRule(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create rule request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req intentrule.CreateRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	rule, err := h.ruleService.CreateRule(c, userData.MerchantID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_rule")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, makeRuleResponse(rule))
	}
}

func (h *IntentRuleHandler) GetRules(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	rules, err := h.ruleService.GetRules(c, userData.MerchantID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_rules")
	}

	res := make([]intentrule.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		res = append(res, makeRuleResponse(rule))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *IntentRuleHandler) GetRule(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("rule ID is required"), ctx.Path())
	}

	rule, err := h.ruleService.GetRule(c, id, userData.MerchantID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_rule")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, makeRuleResponse(rule))
	}
}

func (h *IntentRuleHandler) UpdateRule(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("rule ID is required"), ctx.Path())
	}

	var req intentrule.UpdateRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	rule, err := h.ruleService.UpdateRule(c, id, userData.MerchantID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_rule")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, makeRuleResponse(rule))
	}
}

func (h *IntentRuleHandler) DeleteRule(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("rule ID is required"), ctx.Path())
	}

	if err := h.ruleService.DeleteRule(c, id, userData.MerchantID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_rule")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Rule deleted successfully",
		})
	}
}

func (h *IntentRuleHandler) SetRuleActive(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("rule ID is required"), ctx.Path())
	}

	var req intentrule.SetActiveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.ruleService.SetRuleActive(c, id, userData.MerchantID, *req.IsActive); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "set_rule_active")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Rule updated successfully",
		})
	}
}

func (h *IntentRuleHandler) GetRulePerformance(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("rule ID is required"), ctx.Path())
	}

	res, err := h.ruleService.GetRulePerformance(c, id, userData.MerchantID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_rule_performance")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *IntentRuleHandler) RecordFeedback(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("rule ID is required"), ctx.Path())
	}

	var req intentrule.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.ruleService.RecordFeedback(c, id, userData.MerchantID, *req.Accurate); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "record_feedback")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Feedback recorded",
		})
	}
}

func makeRuleResponse(rule entity.IntentRule) intentrule.RuleResponse {
	return intentrule.RuleResponse{
		ID:                rule.ID,
		MerchantID:        rule.MerchantID,
		IntentType:        string(rule.IntentType),
		Threshold:         rule.Threshold,
		BehavioralSignals: rule.BehavioralSignals,
		HistoricalFactors: rule.HistoricalFactors,
		DeviceContext:     rule.DeviceContext,
		IsActive:          rule.IsActive,
		CreatedAt:         rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         rule.UpdatedAt.Format(time.RFC3339),
	}
}
