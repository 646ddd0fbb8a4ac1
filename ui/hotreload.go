package ui

import (
	"context"
	"crypto/rand"
	"levyt/config"
	"levyt/template"
	"levyt/tracing"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func HotReload() *hotReload {
	hr := &hotReload{}
	hr.createToken()
	return hr
}

// hotReload sends the current token to every connected page once a second.
// Pages reload themselves when the token changes.
type hotReload struct {
	lock  sync.RWMutex
	token []byte
}

func (hr *hotReload) Register(ctx context.Context, cfg *config.Config, mux *http.ServeMux, engine *template.TemplateEngine) error {

	upgrader := websocket.Upgrader{}
	mux.HandleFunc("GET /ws/hotreload", func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			tracing.ErrorCtx(r.Context(), err)
			return
		}
		defer c.Close()

		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for {
			if err := c.WriteMessage(websocket.TextMessage, hr.Token()); err != nil {
				tracing.ErrorCtx(r.Context(), err)
				return
			}

			select {
			case <-r.Context().Done():
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	})

	return nil
}

func (hr *hotReload) Token() []byte {
	hr.lock.RLock()
	defer hr.lock.RUnlock()
	return hr.token
}

func (hr *hotReload) createToken() {
	token := uuid.Must(uuid.NewRandomFromReader(rand.Reader))

	hr.lock.Lock()
	hr.token = []byte(token.String())
	hr.lock.Unlock()
}

func (hr *hotReload) Reload(ctx context.Context) error {
	hr.createToken()
	return nil
}
