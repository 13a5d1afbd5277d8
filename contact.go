package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/Zachkp/council-manifesto/internal/config"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email,max=200"`
	Message string `validate:"required,min=10,max=5000"`
}

var validate = validator.New()

func (m ContactMessage) Validate() error {
	return validate.Struct(m)
}

// Mailer delivers contact messages to the candidate.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

type smtpMailer struct {
	cfg config.SMTPConfig
}

func (m smtpMailer) Send(_ context.Context, msg ContactMessage) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return errSMTPNotConfigured
	}
	to := m.cfg.To
	if to == "" {
		to = m.cfg.User
	}

	subject := fmt.Sprintf("Manifesto Contact: %s", msg.Name)
	body := fmt.Sprintf(`
New contact form submission from the manifesto site:

Name: %s
Email: %s
Message:
%s

---
Sent from the manifesto contact form
`, msg.Name, msg.Email, msg.Message)

	raw := []byte("To: " + to + "\r\n" +
		"Subject: " + headerSafe(subject) + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// headerSafe strips line breaks so form input can't inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// contactLimiter throttles contact submissions per client IP.
type contactLimiter struct {
	mu       sync.Mutex
	perSec   rate.Limit
	burst    int
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newContactLimiter(perMinute float64, burst int) *contactLimiter {
	return &contactLimiter{
		perSec:   rate.Limit(perMinute / 60),
		burst:    burst,
		limiters: make(map[string]*limiterEntry),
	}
}

func (l *contactLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now

	// forget clients idle for an hour so the map doesn't grow forever
	for k, other := range l.limiters {
		if now.Sub(other.lastSeen) > time.Hour {
			delete(l.limiters, k)
		}
	}
	return e.limiter.AllowN(now, 1)
}

func (s *server) setupContactRoutes(r *gin.Engine) {
	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact " + s.lib.Site().Candidate,
		})
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			c.HTML(http.StatusTooManyRequests, "contact-error.html", gin.H{
				"error": "You have sent several messages already. Please wait a few minutes.",
			})
			return
		}

		msg := ContactMessage{
			Name:    strings.TrimSpace(c.PostForm("fullName")),
			Email:   strings.TrimSpace(c.PostForm("email")),
			Message: strings.TrimSpace(c.PostForm("message")),
		}
		if err := msg.Validate(); err != nil {
			c.HTML(http.StatusUnprocessableEntity, "contact.html", gin.H{
				"title":  "Contact " + s.lib.Site().Candidate,
				"errors": fieldErrors(err),
				"form":   msg,
			})
			return
		}

		if err := s.mailer.Send(c.Request.Context(), msg); err != nil {
			log.Error("sending contact email", "err", err)
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		log.Info("contact email sent", "from", msg.Name)
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}

// fieldErrors turns validator output into one message per form field.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Please check your input."
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "This field is required."
		case "email":
			out[fe.Field()] = "Please enter a valid email address."
		case "min":
			out[fe.Field()] = fmt.Sprintf("Please write at least %s characters.", fe.Param())
		case "max":
			out[fe.Field()] = fmt.Sprintf("Please keep this under %s characters.", fe.Param())
		default:
			out[fe.Field()] = "This value is not valid."
		}
	}
	return out
}
