package routing

import (
	"context"
	"levyt/config"
	"levyt/template"
	"levyt/tracing"
	"net/http"
)

type Handler = func(
	ctx context.Context,
	config *config.Config,
	mux *http.ServeMux,
	engine *template.TemplateEngine,
) error

// RouteHandler turns an error returned by a handler into a 500 response.
func RouteHandler(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			tracing.ErrorCtx(r.Context(), err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
