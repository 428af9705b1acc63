package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AliAmzai/Tablr/hub"
	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

type WSController struct {
	Owner    *services.Ownership
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewWSController accepts handshakes from the allowed origins; "*" or an empty list allows all.
func NewWSController(owner *services.Ownership, h *hub.Hub, allowedOrigins []string) *WSController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WSController{
		Owner: owner,
		Hub:   h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// FloorPlanSocket streams floor plan events of ?restaurantId= to the caller.
func (wc *WSController) FloorPlanSocket(c *gin.Context) {
	restaurantID, ok := queryID(c, "restaurantId")
	if !ok {
		return
	}
	if _, err := wc.Owner.Restaurant(c.Request.Context(), middlewares.UserID(c), restaurantID); err != nil {
		respondServiceError(c, err, restaurantNotFound)
		return
	}

	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	wc.Hub.Serve(conn, restaurantID)
}
