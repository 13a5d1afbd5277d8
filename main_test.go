package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Zachkp/council-manifesto/internal/config"
	"github.com/Zachkp/council-manifesto/internal/content"
	"github.com/Zachkp/council-manifesto/internal/gallery"
	"github.com/Zachkp/council-manifesto/internal/session"
	"github.com/Zachkp/council-manifesto/internal/thumbs"
	"github.com/Zachkp/council-manifesto/internal/tracking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []ContactMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testClient struct {
	t      *testing.T
	r      *gin.Engine
	cookie *http.Cookie
	admin  *http.Cookie
}

func newTestServer(t *testing.T, withDB bool) (*server, *testClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lib, err := content.NewLibrary("")
	require.NoError(t, err)
	tmpl, err := loadTemplates()
	require.NoError(t, err)

	dir := t.TempDir()
	s := &server{
		cfg: config.Config{
			Content: config.ContentConfig{ImagesDir: dir, StaticDir: dir},
			Admin:   config.AdminConfig{Username: "board", Password: "secret"},
		},
		lib:        lib,
		sessions:   session.NewMemoryStore(time.Minute),
		thumbs:     thumbs.New(dir, filepath.Join(dir, "cache")),
		mailer:     &fakeMailer{},
		limiter:    newContactLimiter(1, 2),
		adminToken: "test-token",
		tmpl:       tmpl,
	}
	if withDB {
		db, err := tracking.Open(filepath.Join(dir, "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		s.db = db
	}
	return s, &testClient{t: t, r: s.router()}
}

func (tc *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()
	w := httptest.NewRecorder()
	tc.r.ServeHTTP(w, tc.request(method, path, form))
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case sessionCookie:
			tc.cookie = c
		case adminCookie:
			tc.admin = c
		}
	}
	return w
}

// request builds a request carrying the client's cookies without touching
// the client, so it is safe to use from several goroutines.
func (tc *testClient) request(method, path string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("HX-Request", "true")
	if tc.cookie != nil {
		req.AddCookie(tc.cookie)
	}
	if tc.admin != nil {
		req.AddCookie(tc.admin)
	}
	return req
}

func locked(t *testing.T, w *httptest.ResponseRecorder) bool {
	t.Helper()
	var trigger struct {
		ScrollLock struct {
			Locked bool `json:"locked"`
		} `json:"scrollLock"`
	}
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger))
	return trigger.ScrollLock.Locked
}

func (tc *testClient) state() gallery.PopupSnapshot {
	tc.t.Helper()
	w := tc.do(http.MethodGet, "/gallery/state", nil)
	require.Equal(tc.t, http.StatusOK, w.Code)
	var snap gallery.PopupSnapshot
	require.NoError(tc.t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestHomePage(t *testing.T) {
	_, tc := newTestServer(t, false)

	w := tc.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), content.Default().Candidate)
	assert.Contains(t, w.Body.String(), "/experience/summer-leadership-camp")
	assert.NotNil(t, tc.cookie)
}

func TestLightboxFlow(t *testing.T) {
	_, tc := newTestServer(t, false)

	w := tc.do(http.MethodGet, "/experience/summer-leadership-camp", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Summer Leadership Camp")
	assert.True(t, locked(t, w))

	w = tc.do(http.MethodPost, "/gallery/open", url.Values{"index": {"2"}})
	assert.Contains(t, w.Body.String(), "3 / 3")
	assert.True(t, locked(t, w))

	w = tc.do(http.MethodPost, "/gallery/next", url.Values{})
	assert.Contains(t, w.Body.String(), "1 / 3")

	w = tc.do(http.MethodPost, "/gallery/key", url.Values{"key": {"ArrowLeft"}})
	assert.Contains(t, w.Body.String(), "3 / 3")

	tc.do(http.MethodPost, "/gallery/zoom", url.Values{})
	assert.True(t, tc.state().Lightbox.Zoomed)

	tc.do(http.MethodPost, "/gallery/goto", url.Values{"index": {"1"}})
	st := tc.state()
	assert.Equal(t, 1, st.Lightbox.Index)
	assert.False(t, st.Lightbox.Zoomed)

	tc.do(http.MethodPost, "/gallery/goto", url.Values{"index": {"9"}})
	assert.Equal(t, 1, tc.state().Lightbox.Index)

	w = tc.do(http.MethodPost, "/gallery/key", url.Values{"key": {"Escape"}})
	assert.NotContains(t, w.Body.String(), `id="lightbox"`)
	assert.True(t, locked(t, w))
	assert.True(t, tc.state().Open)

	w = tc.do(http.MethodPost, "/popup/key", url.Values{"key": {"Escape"}})
	assert.False(t, locked(t, w))
	assert.False(t, tc.state().Open)
}

func TestConcurrentCommandsKeepSnapshotConsistent(t *testing.T) {
	_, tc := newTestServer(t, false)
	tc.do(http.MethodGet, "/experience/summer-leadership-camp", nil)
	tc.do(http.MethodPost, "/gallery/open", url.Values{"index": {"0"}})
	require.True(t, tc.state().Lightbox.Open)

	var wg sync.WaitGroup
	fire := func(path string) {
		defer wg.Done()
		w := httptest.NewRecorder()
		tc.r.ServeHTTP(w, tc.request(http.MethodPost, path, url.Values{}))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go fire("/gallery/next")
		go fire("/gallery/zoom")
	}
	wg.Add(1)
	go fire("/gallery/close")
	wg.Wait()

	// once the close lands, no later command may reopen the lightbox
	st := tc.state()
	assert.True(t, st.Open)
	assert.False(t, st.Lightbox.Open)
	assert.False(t, st.Lightbox.Zoomed)
	assert.Len(t, st.Lightbox.Images, 3)
}

func TestPopupFullscreenAndClose(t *testing.T) {
	_, tc := newTestServer(t, false)
	tc.do(http.MethodGet, "/questions/is-there-room-for-everyone", nil)

	w := tc.do(http.MethodPost, "/popup/fullscreen", url.Values{})
	assert.Contains(t, w.Body.String(), "Exit fullscreen")
	assert.True(t, tc.state().Fullscreen)

	w = tc.do(http.MethodPost, "/popup/key", url.Values{"key": {"Escape"}})
	assert.True(t, locked(t, w))
	assert.False(t, tc.state().Fullscreen)

	w = tc.do(http.MethodPost, "/popup/close", url.Values{})
	assert.False(t, locked(t, w))
	assert.Empty(t, strings.TrimSpace(w.Body.String()))
}

func TestGalleryCommandsWithoutPopup(t *testing.T) {
	_, tc := newTestServer(t, false)

	for _, path := range []string{"/gallery/open", "/gallery/next", "/gallery/prev", "/gallery/zoom", "/gallery/close"} {
		w := tc.do(http.MethodPost, path, url.Values{})
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.False(t, locked(t, w), path)
	}
	assert.False(t, tc.state().Open)
}

func TestOpenWithBadIndexClamps(t *testing.T) {
	_, tc := newTestServer(t, false)
	tc.do(http.MethodGet, "/experience/open-member-forum", nil)

	w := tc.do(http.MethodPost, "/gallery/open", url.Values{"index": {"abc"}})
	assert.Contains(t, w.Body.String(), "1 / 2")
}

func TestQuestionWithoutImages(t *testing.T) {
	_, tc := newTestServer(t, false)
	tc.do(http.MethodGet, "/questions/where-does-the-money-go", nil)

	w := tc.do(http.MethodPost, "/gallery/open", url.Values{"index": {"0"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No images yet.")

	tc.do(http.MethodPost, "/gallery/next", url.Values{})
	assert.Equal(t, 0, tc.state().Lightbox.Index)
}

func TestCardCarousel(t *testing.T) {
	_, tc := newTestServer(t, false)

	home := tc.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, home, "/carousel/summer-leadership-camp?i=0")
	assert.NotContains(t, home, "/carousel/member-newsletter", "single images get no controls")

	w := tc.do(http.MethodGet, "/carousel/summer-leadership-camp?i=0&step=prev", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3 / 3")
	assert.Contains(t, w.Body.String(), "/thumbs/camp/campfire.jpg?w=640")

	w = tc.do(http.MethodGet, "/carousel/summer-leadership-camp?i=2&step=next", nil)
	assert.Contains(t, w.Body.String(), "1 / 3")

	w = tc.do(http.MethodGet, "/carousel/summer-leadership-camp?i=abc", nil)
	assert.Contains(t, w.Body.String(), "1 / 3")

	w = tc.do(http.MethodGet, "/carousel/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.False(t, tc.state().Open, "the carousel keeps no visitor state")
}

func TestUnknownItem(t *testing.T) {
	_, tc := newTestServer(t, false)
	w := tc.do(http.MethodGet, "/experience/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactForm(t *testing.T) {
	s, tc := newTestServer(t, false)
	mailer := s.mailer.(*fakeMailer)

	w := tc.do(http.MethodPost, "/contact", url.Values{"fullName": {"Sam"}, "email": {"nope"}, "message": {"hi"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "valid email")

	w = tc.do(http.MethodPost, "/contact", url.Values{
		"fullName": {"Sam"},
		"email":    {"sam@example.org"},
		"message":  {"When is the next open forum?"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you")
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sam@example.org", mailer.sent[0].Email)

	w = tc.do(http.MethodPost, "/contact", url.Values{})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAdminLogin(t *testing.T) {
	_, tc := newTestServer(t, true)

	w := tc.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = tc.do(http.MethodPost, "/admin/login", url.Values{"username": {"board"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = tc.do(http.MethodPost, "/admin/login", url.Values{"username": {"board"}, "password": {"secret"}})
	assert.Equal(t, http.StatusFound, w.Code)
	require.NotNil(t, tc.admin)

	w = tc.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gallery opens")

	w = tc.do(http.MethodGet, "/admin/api/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var stats tracking.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
}

func TestThumbURL(t *testing.T) {
	assert.Equal(t, "/thumbs/camp/fire%20pit.jpg?w=320", thumbURL("/images/camp/fire pit.jpg", 300))
	assert.Equal(t, "https://cdn.example.org/a.jpg", thumbURL("https://cdn.example.org/a.jpg", 160))
}

func TestThumbnailMissingImage(t *testing.T) {
	_, tc := newTestServer(t, false)
	w := tc.do(http.MethodGet, "/thumbs/missing.jpg?w=160", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept running after its context ended")
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	err = serve(context.Background(), srv, time.Second)
	assert.Error(t, err)
}
