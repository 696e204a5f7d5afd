package analyticsHandler

import (
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/handlerUtil"
	jwtPkg "ProjectKwik/pkg/jwt"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const defaultWindowDays = 30

// sinceFromQuery turns an optional ?days=N query into a window start.
func sinceFromQuery(ctx *fiber.Ctx) (time.Time, error) {
	days := defaultWindowDays
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return time.Time{}, errors.New("days must be a positive integer")
		}
		days = parsed
	}

	return time.Now().AddDate(0, 0, -days), nil
}

func (h *AnalyticsHandler) GetOverview(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	since, err := sinceFromQuery(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.analyticsService.GetOverview(c, userData.MerchantID, since)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_overview")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) GetConversionRates(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	since, err := sinceFromQuery(ctx)
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.analyticsService.GetConversionRates(c, userData.MerchantID, since)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_conversion_rates")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) GetWidgetPerformance(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.analyticsService.GetWidgetPerformance(c, userData.MerchantID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_widget_performance")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) GetDashboard(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.analyticsService.GetDashboard(c, userData.MerchantID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_dashboard")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) GetTrends(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	days := 0
	if raw := ctx.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("days must be an integer"), ctx.Path())
		}
	}

	res, err := h.analyticsService.GetTrends(c, userData.MerchantID, days)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_trends")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) GetRecentDetections(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("limit must be an integer"), ctx.Path())
		}
	}

	res, err := h.analyticsService.GetRecentDetections(c, userData.MerchantID, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_recent")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalyticsHandler) Export(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -defaultWindowDays)

	if raw := ctx.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("from must be formatted as YYYY-MM-DD"), ctx.Path())
		}
	}
	if raw := ctx.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("to must be formatted as YYYY-MM-DD"), ctx.Path())
		}
		to = to.AddDate(0, 0, 1)
	}

	if !from.Before(to) {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("from must be before to"), ctx.Path())
	}

	res, err := h.analyticsService.Export(c, userData.MerchantID, from, to)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analytics_export")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
