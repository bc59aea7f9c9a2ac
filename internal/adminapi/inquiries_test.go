package adminapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/3dcreationshub/creationshub/internal/app"
	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

type busApp struct {
	app.AppContext
	bus EventBus.Bus
}

func (a busApp) Bus() EventBus.Bus { return a.bus }

type failBus struct {
	EventBus.Bus
}

func (failBus) Subscribe(topic string, fn interface{}) error {
	return errors.New("bus closed")
}

// streamRecorder is a response writer safe to read while the feed handler
// is still writing from its own goroutine.
type streamRecorder struct {
	mu     sync.Mutex
	status int
	header http.Header
	buf    bytes.Buffer
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{header: http.Header{}}
}

func (r *streamRecorder) Header() http.Header { return r.header }

func (r *streamRecorder) WriteHeader(code int) {
	r.mu.Lock()
	r.status = code
	r.mu.Unlock()
}

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestInquiryFeedStreamsChanges(t *testing.T) {
	bus := EventBus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/api/inquiries/feed", nil).WithContext(ctx)
	rec := newStreamRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.ContextAppKey, busApp{bus: bus})

	done := make(chan error, 1)
	go func() { done <- inquiryFeed(c) }()

	waitFor(t, func() bool { return bus.HasCallback(domain.TopicInquiriesChanged) })
	bus.Publish(domain.TopicInquiriesChanged)
	waitFor(t, func() bool { return strings.Contains(rec.String(), "event: changed") })

	cancel()
	assert.NoError(t, <-done)
	assert.False(t, bus.HasCallback(domain.TopicInquiriesChanged))
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
}

func TestInquiryFeedSubscribeFailure(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/api/inquiries/feed", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.ContextAppKey, busApp{bus: failBus{}})

	assert.NoError(t, inquiryFeed(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "BUS_ERROR")
	assert.NotEqual(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
}
