package router

import (
	"context"
	"net/http"

	"github.com/basequest/backend/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may return a derived context
// which replaces the request context, or an error which aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, with the error the handler
// returned, if any.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	baseCtx context.Context
	mux     *mux

	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers run with the given base context. The
// context is expected to carry configs, logger, and database.
func New(ctx context.Context) *Router {
	return &Router{baseCtx: ctx, mux: newMux()}
}

// Branch creates a router sharing the same serve mux, but with its own
// middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		baseCtx: r.baseCtx,
		mux:     r.mux,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func (r *Router) Handler() http.Handler {
	allowOrigins := xcontext.Configs(r.baseCtx).ApiServer.AllowCORS
	return cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Api-Key"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.handle(http.MethodGet, pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.handle(http.MethodPost, pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	befores := r.befores
	closers := r.closers

	return func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithHTTPRequest(r.baseCtx, req)

		err := func() error {
			for _, m := range befores {
				newCtx, err := m(ctx)
				if err != nil {
					return err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			var request Request
			if err := bindRequest(req, method, &request); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				return errBadRequest
			}

			resp, err := handler(ctx, &request)
			if err != nil {
				return err
			}

			return writeJSON(ctx, w, newResponse(resp))
		}()

		if err != nil {
			if werr := writeJSON(ctx, w, newErrorResponse(err)); werr != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", werr)
			}
		}

		for _, c := range closers {
			c(ctx, err)
		}
	}
}

type mux struct {
	handlers map[string]map[string]http.HandlerFunc
}

func newMux() *mux {
	return &mux{handlers: make(map[string]map[string]http.HandlerFunc)}
}

func (m *mux) handle(method, pattern string, handler http.HandlerFunc) {
	if _, ok := m.handlers[pattern]; !ok {
		m.handlers[pattern] = make(map[string]http.HandlerFunc)
	}

	m.handlers[pattern][method] = handler
}

func (m *mux) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	byMethod, ok := m.handlers[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}

	handler, ok := byMethod[req.Method]
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	handler(w, req)
}
