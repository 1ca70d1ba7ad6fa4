package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-minimax/internal/app"
    "github.com/jaminalder/tictactoe-minimax/internal/domain"
    "github.com/jaminalder/tictactoe-minimax/internal/msgcat"
)

// Option configures the HTTP layer.
type Option func(*handlers)

// WithLogger sets the request and handler logger.
func WithLogger(l *zap.Logger) Option {
    return func(h *handlers) {
        if l != nil {
            h.log = l
        }
    }
}

// WithCatalog replaces the embedded message catalog.
func WithCatalog(c *msgcat.Catalog) Option {
    return func(h *handlers) {
        if c != nil {
            h.cat = c
        }
    }
}

// WithDefaults sets the mode and difficulty preselected on the index page and
// used when a create request omits them.
func WithDefaults(mode domain.Mode, d domain.Difficulty) Option {
    return func(h *handlers) {
        h.mode = mode
        h.difficulty = d
    }
}

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{
        svc:        s,
        tpl:        loadTemplates(),
        cat:        msgcat.Default(),
        log:        zap.NewNop(),
        mode:       domain.HumanVsAI,
        difficulty: domain.Medium,
    }
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(&gs, domain.Empty, "") })

    r := chi.NewRouter()
    r.Use(middleware.Recoverer)
    r.Use(h.logRequests)
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/reset", h.reset)
        r.Post("/difficulty", h.setDifficulty)
        r.Get("/state", h.state)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
        r.Get("/board.png", h.boardPNG)
    })
    return r
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        start := time.Now()
        next.ServeHTTP(ww, r)
        h.log.Debug("http request",
            zap.String("method", r.Method),
            zap.String("path", r.URL.Path),
            zap.Int("status", ww.Status()),
            zap.Duration("elapsed", time.Since(start)),
        )
    })
}
