package main

import (
	"html/template"
	"net/http"

	"github.com/Zachkp/council-manifesto/internal/config"
	"github.com/Zachkp/council-manifesto/internal/content"
	"github.com/Zachkp/council-manifesto/internal/session"
	"github.com/Zachkp/council-manifesto/internal/thumbs"
	"github.com/Zachkp/council-manifesto/internal/tracking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "manifesto_sid"

type server struct {
	cfg        config.Config
	lib        *content.Library
	sessions   session.Store
	visitors   session.Locks
	db         *tracking.DB
	thumbs     *thumbs.Generator
	mailer     Mailer
	limiter    *contactLimiter
	adminToken string
	tmpl       *template.Template
}

func (s *server) router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(s.tmpl)

	r.Static("/images", s.cfg.Content.ImagesDir)
	r.Static("/static", s.cfg.Content.StaticDir)

	r.Use(s.visitorTrackingMiddleware())
	r.Use(visitorSession())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"site": s.lib.Site(),
		})
	})

	r.GET("/thumbs/*path", s.thumbnail)

	s.setupGalleryRoutes(r)
	s.setupContactRoutes(r)
	s.setupAdminRoutes(r)
	return r
}

// visitorSession gives every browser an opaque id for its popup state.
func visitorSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
		}
		c.Set(sessionCookie, sid)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCookie)
}
