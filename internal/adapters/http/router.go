package http

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cubeduel/internal/adapters/game"
	"cubeduel/internal/app"
	"cubeduel/internal/config"
)

// ClientTokenMiddleware gives every browser a stable opaque token.
// Purely a transport concern; identity comes with join_queue.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, ctl *game.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CubeduelSession", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// GET /api/queues — waiting players per cube size
	api.GET("/queues", func(c *gin.Context) {
		c.JSON(200, gin.H{"queues": coord.Queue.Depths()})
	})

	// GET /api/rooms — active matches
	api.GET("/rooms", func(c *gin.Context) {
		rooms := coord.Rooms.List()
		out := make([]gin.H, 0, len(rooms))
		for _, room := range rooms {
			out = append(out, gin.H{
				"roomId":    room.ID,
				"players":   room.Players,
				"cubeSize":  room.CubeSize,
				"createdAt": room.CreatedAt,
			})
		}
		c.JSON(200, gin.H{"rooms": out})
	})

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").
			Str("client", c.GetString("client_token")).
			Msg("ws endpoint hit")
		ctl.HandleWS(ctx, c)
	})

	return r
}
