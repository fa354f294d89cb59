package main

import (
	"context"
	"hotelbooking/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *server) roomRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.GET("/rooms/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			s.respondError(ctx, types.ErrNotFound)
			return
		}
		sctx, cancel := context.WithTimeout(ctx.Request.Context(), s.cfg.StoreTimeout)
		defer cancel()
		room, err := s.store.FetchRoom(sctx, uuid.MustParse(params.ID))
		if err != nil {
			s.respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": room.Response()})
	})
	return apiv1
}
