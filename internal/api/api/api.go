package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"partnerhub/cmd/middleware"
	"partnerhub/internal/service"
)

type Routers struct {
	Service service.Service
	Secret  []byte
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	apiGroup := app.Group("/v1")

	apiGroup.POST("/auth/register", r.Service.Register)
	apiGroup.POST("/auth/login", r.Service.Login)

	session := apiGroup.Group("")
	session.Use(middleware.SessionMiddleware(r.Secret))

	session.POST("/partners", r.Service.CreatePartner)
	session.GET("/partners/me", r.Service.GetPartner)
	session.PUT("/partners/me", r.Service.UpdatePartner)

	session.GET("/events", r.Service.GetAllEvents)
	session.POST("/events", r.Service.CreateEvent)
	session.GET("/events/:id", r.Service.GetEvent)
	session.PUT("/events/:id", r.Service.UpdateEvent)
	session.DELETE("/events/:id", r.Service.DeleteEvent)
	session.POST("/events/:id/cancel", r.Service.CancelEvent)
	session.POST("/events/:id/publish", r.Service.PublishEvent)
	session.POST("/events/:id/register", r.Service.RegisterForEvent)
	session.POST("/events/:id/invite", r.Service.InviteToEvent)
	session.POST("/events/:id/share", r.Service.ShareEvent)
	session.GET("/events/:id/analytics", r.Service.GetEventAnalytics)

	session.GET("/offers", r.Service.GetAllOffers)
	session.POST("/offers", r.Service.CreateOffer)
	session.GET("/offers/:id", r.Service.GetOffer)
	session.PUT("/offers/:id", r.Service.UpdateOffer)
	session.DELETE("/offers/:id", r.Service.DeleteOffer)
	session.POST("/offers/:id/link", r.Service.LinkOffer)
	session.GET("/offers/:id/events", r.Service.GetOfferEvents)

	session.GET("/analytics", r.Service.GetAnalytics)

	return app
}
