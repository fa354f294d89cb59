package main

import (
	"hotelbooking/src/middlewares"
	"hotelbooking/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *server) checkoutRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	checkout := apiv1.Group("/checkout")
	checkout.Use(s.auth, middlewares.RateLimit(s.cfg.CheckoutRatePerMin, s.logger))
	checkout.POST("/session", func(ctx *gin.Context) {
		var body types.BookingRequest
		if err := ctx.ShouldBindJSON(&body); err != nil {
			s.respondError(ctx, bindingError(err))
			return
		}
		handle, err := s.initiator.CreateSession(ctx.Request.Context(), &body, middlewares.UserID(ctx), middlewares.Email(ctx))
		if err != nil {
			s.respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, types.CreateSessionResponse{SessionID: handle.ID, URL: handle.URL})
	})
	return checkout
}
