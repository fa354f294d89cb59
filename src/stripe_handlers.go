package main

import (
	"context"
	"errors"
	"hotelbooking/src/types"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

// stripeWebhookRoute acknowledges an event only once the booking is durable.
// Any non-2xx answer makes Stripe deliver the event again.
func (s *server) stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.logger.Warn("webhook body too large", zap.Int64("limit", tooLarge.Limit))
				ctx.Status(http.StatusRequestEntityTooLarge)
				return
			}
			s.logger.Warn("error reading webhook body", zap.Error(err))
			ctx.Status(http.StatusServiceUnavailable)
			return
		}

		event, err := s.verifier.Verify(payload, ctx.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, types.ErrUnsupportedEvent) {
				s.logger.Debug("webhook event ignored", zap.Error(err))
			} else {
				s.logger.Warn("webhook rejected", zap.Error(err))
			}
			ctx.Status(types.HTTPStatus(err))
			return
		}

		// The commit outlives a dropped connection; every store call inside
		// carries its own timeout.
		res, err := s.committer.Commit(context.WithoutCancel(ctx.Request.Context()), event)
		if err != nil {
			status := types.HTTPStatus(err)
			s.logger.Error("webhook commit failed",
				zap.String("session", event.SessionID),
				zap.Int("status", status),
				zap.Error(err),
			)
			ctx.Status(status)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"received": true, "duplicate": res.Duplicate})
	})
	return apiv1
}
