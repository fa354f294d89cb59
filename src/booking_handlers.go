package main

import (
	"context"
	"hotelbooking/src/middlewares"
	"hotelbooking/src/types"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultBookingsPage = 20
	maxBookingsPage     = 100
)

func (s *server) bookingRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	bookings := apiv1.Group("/bookings")
	bookings.Use(s.auth)
	bookings.
		GET("", func(ctx *gin.Context) {
			limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultBookingsPage)))
			if err != nil || limit < 1 {
				limit = defaultBookingsPage
			}
			limit = min(limit, maxBookingsPage)
			sctx, cancel := context.WithTimeout(ctx.Request.Context(), s.cfg.StoreTimeout)
			defer cancel()
			list, err := s.store.ListBookingsForUser(sctx, middlewares.UserID(ctx), limit)
			if err != nil {
				s.respondError(ctx, err)
				return
			}
			data := make([]types.APIResponseBooking, 0, len(list))
			for _, b := range list {
				data = append(data, b.Response())
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				s.respondError(ctx, types.ErrNotFound)
				return
			}
			sctx, cancel := context.WithTimeout(ctx.Request.Context(), s.cfg.StoreTimeout)
			defer cancel()
			booking, err := s.store.FindBooking(sctx, uuid.MustParse(params.ID))
			if err != nil {
				s.respondError(ctx, err)
				return
			}
			// other users' bookings are indistinguishable from missing ones
			if booking.UserID != middlewares.UserID(ctx) {
				s.respondError(ctx, types.ErrNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking.Response()})
		})
	return bookings
}
