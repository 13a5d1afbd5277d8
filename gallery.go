package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Zachkp/council-manifesto/internal/content"
	"github.com/Zachkp/council-manifesto/internal/gallery"
	"github.com/Zachkp/council-manifesto/internal/thumbs"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// overlayView is what overlay.html renders: the open popup, the item behind
// it, and its lightbox.
type overlayView struct {
	Popup      gallery.PopupSnapshot
	Experience *content.Experience
	Question   *content.Question
	Lightbox   gallery.State
}

// withPopup runs one command against the visitor's popup: it restores the
// stored snapshot, applies fn, saves the result and renders the overlay.
// The page lock state goes back in an HX-Trigger header so the page
// script can lock or unlock the body. Commands from one visitor run one at
// a time so overlapping requests can't overwrite each other's snapshot.
func (s *server) withPopup(c *gin.Context, fn func(p *gallery.Popup)) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	unlock := s.visitors.Lock(sid)
	defer unlock()

	snap, err := s.sessions.Load(ctx, sid)
	if err != nil {
		log.Error("loading popup state", "err", err)
		snap = gallery.PopupSnapshot{}
	}

	lock := gallery.NewPageLock(nil)
	p := gallery.RestorePopup(snap, lock, nil)
	fn(p)

	next := p.Snapshot()
	if err := s.sessions.Save(ctx, sid, next); err != nil {
		log.Error("saving popup state", "err", err)
	}

	trigger, _ := json.Marshal(gin.H{"scrollLock": gin.H{"locked": lock.Held()}})
	c.Header("HX-Trigger", string(trigger))
	c.HTML(http.StatusOK, "overlay.html", s.overlay(next))
}

func (s *server) overlay(snap gallery.PopupSnapshot) overlayView {
	v := overlayView{Popup: snap, Lightbox: snap.Lightbox}
	if !snap.Open {
		return v
	}
	site := s.lib.Site()
	if e, ok := site.Experience(snap.Slug); ok {
		v.Experience = e
	} else if q, ok := site.Question(snap.Slug); ok {
		v.Question = q
	}
	return v
}

// formIndex reads an index field. Garbage becomes -1, which Open clamps and
// GoTo ignores.
func formIndex(c *gin.Context) int {
	i, err := strconv.Atoi(c.PostForm("index"))
	if err != nil {
		return -1
	}
	return i
}

func (s *server) showItem(c *gin.Context) {
	slug := c.Param("slug")
	images, ok := s.lib.Site().Images(slug)
	if !ok {
		c.HTML(http.StatusNotFound, "overlay.html", overlayView{})
		return
	}
	s.withPopup(c, func(p *gallery.Popup) { p.Show(slug, images) })
}

// carousel steps a timeline card's inline images.
func (s *server) carousel(c *gin.Context) {
	slug := c.Param("slug")
	images, ok := s.lib.Site().Images(slug)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	at, err := strconv.Atoi(c.Query("i"))
	if err != nil {
		at = -1
	}
	c.HTML(http.StatusOK, "carousel", newCarousel(slug, images, at, c.Query("step")))
}

func (s *server) setupGalleryRoutes(r *gin.Engine) {
	r.GET("/experience/:slug", s.showItem)
	r.GET("/questions/:slug", s.showItem)
	r.GET("/carousel/:slug", s.carousel)

	popup := r.Group("/popup")
	popup.POST("/close", func(c *gin.Context) {
		s.withPopup(c, func(p *gallery.Popup) { p.Hide() })
	})
	popup.POST("/fullscreen", func(c *gin.Context) {
		s.withPopup(c, func(p *gallery.Popup) { p.ToggleFullscreen() })
	})
	popup.POST("/key", func(c *gin.Context) {
		key := c.PostForm("key")
		s.withPopup(c, func(p *gallery.Popup) { p.HandleKey(key) })
	})

	lb := r.Group("/gallery")
	lb.GET("/state", func(c *gin.Context) {
		snap, err := s.sessions.Load(c.Request.Context(), sessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, snap)
	})
	lb.POST("/open", func(c *gin.Context) {
		index := formIndex(c)
		s.withPopup(c, func(p *gallery.Popup) {
			if !p.IsOpen() {
				return
			}
			p.Lightbox().Open(index)
			s.recordGalleryOpen(c, p.Slug(), p.Lightbox().State().Index)
		})
	})
	lb.POST("/close", s.lightboxCommand(func(lb *gallery.Lightbox, _ *gin.Context) { lb.Close() }))
	lb.POST("/next", s.lightboxCommand(func(lb *gallery.Lightbox, _ *gin.Context) { lb.Next() }))
	lb.POST("/prev", s.lightboxCommand(func(lb *gallery.Lightbox, _ *gin.Context) { lb.Prev() }))
	lb.POST("/zoom", s.lightboxCommand(func(lb *gallery.Lightbox, _ *gin.Context) { lb.ToggleZoom() }))
	lb.POST("/goto", s.lightboxCommand(func(lb *gallery.Lightbox, c *gin.Context) { lb.GoTo(formIndex(c)) }))
	lb.POST("/key", s.lightboxCommand(func(lb *gallery.Lightbox, c *gin.Context) { lb.HandleKey(c.PostForm("key")) }))
}

func (s *server) lightboxCommand(cmd func(*gallery.Lightbox, *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.withPopup(c, func(p *gallery.Popup) { cmd(p.Lightbox(), c) })
	}
}

func (s *server) recordGalleryOpen(c *gin.Context, slug string, index int) {
	if s.db == nil || c.GetHeader("DNT") == "1" {
		return
	}
	ip := c.ClientIP()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.db.RecordGalleryOpen(ctx, ip, slug, index); err != nil {
			log.Error("recording gallery open", "slug", slug, "err", err)
		}
	}()
}

// thumbnail serves a resized copy of an image for thumbnail strips.
func (s *server) thumbnail(c *gin.Context) {
	width, _ := strconv.Atoi(c.Query("w"))
	dst, err := s.thumbs.Path(c.Param("path"), width)
	switch {
	case errors.Is(err, thumbs.ErrInvalidPath):
		c.Status(http.StatusBadRequest)
		return
	case errors.Is(err, thumbs.ErrNotFound):
		c.Status(http.StatusNotFound)
		return
	case err != nil:
		log.Error("thumbnail", "path", c.Param("path"), "err", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(dst)
}
