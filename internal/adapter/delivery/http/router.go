package http

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	handler "chain-support/internal/adapter/handler/http"
)

// RegisterRoutes sets up the chain routes plus health and metrics endpoints.
func RegisterRoutes(r *router.Router, h *handler.ChainHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/chains", h.ListChains)
	r.GET("/chains/{chainId}", h.GetChain)
	r.GET("/chains/{chainId}/support", h.GetSupport)
	r.GET("/networks/detect", h.DetectNetwork)
	r.GET("/flags", h.GetFlags)
	r.POST("/flags/refresh", h.RefreshFlags)
	r.GET("/categories", h.GetCategories)
	r.GET("/sources", h.GetSources)

	logger.Info("Setting up health check and metrics routes...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})
	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request with its status and duration.
func LoggingMiddleware(next fasthttp.RequestHandler, logger *zap.Logger) fasthttp.RequestHandler {
	logger = logger.Named("HTTP")
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		logger.Info("Request handled",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)))
	}
}
