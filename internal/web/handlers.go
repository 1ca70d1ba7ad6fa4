package web

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-minimax/internal/app"
    "github.com/jaminalder/tictactoe-minimax/internal/domain"
    "github.com/jaminalder/tictactoe-minimax/internal/msgcat"
    "github.com/jaminalder/tictactoe-minimax/internal/render"
)

type handlers struct {
    svc        *app.Service
    tpl        *templates
    cat        *msgcat.Catalog
    log        *zap.Logger
    mode       domain.Mode
    difficulty domain.Difficulty
}

func (h *handlers) renderBoard(gs *app.GameState, seat domain.Cell, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(h.cat, gs, seat, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := indexView{Mode: h.mode.String(), Difficulty: h.difficulty.String(), Difficulties: difficulties}
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "base", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    mode, d := h.mode, h.difficulty
    if v := r.Form.Get("mode"); v != "" {
        m, err := domain.ParseMode(v)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        mode = m
    }
    if v := r.Form.Get("difficulty"); v != "" {
        parsed, err := domain.ParseDifficulty(v)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        d = parsed
    }
    gs, err := h.svc.CreateGame(r.Context(), mode, d)
    if err != nil {
        h.log.Error("create game failed", zap.Error(err))
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    seat, gs, err := h.svc.Join(r.Context(), id, pid)
    if err != nil {
        h.fail(w, r, err)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "base", newBoardView(h.cat, gs, seat, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    seat, gs, err := h.svc.Join(r.Context(), id, pid)
    if err != nil {
        h.fail(w, r, err)
        return
    }
    h.writeBoard(w, gs, seat, "")
}

// cellIndex reads either i or the r/c pair. Anything unparsable maps to -1
// so the game rejects it as out of bounds.
func cellIndex(r *http.Request) int {
    if v := r.Form.Get("i"); v != "" {
        i, err := strconv.Atoi(strings.TrimSpace(v))
        if err != nil {
            return -1
        }
        return i
    }
    row, err1 := strconv.Atoi(strings.TrimSpace(r.Form.Get("r")))
    col, err2 := strconv.Atoi(strings.TrimSpace(r.Form.Get("c")))
    if err1 != nil || err2 != nil || row < 0 || row > 2 || col < 0 || col > 2 {
        return -1
    }
    return row*3 + col
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    index := cellIndex(r)
    h.mutate(w, r, func(id, pid string) (*app.GameState, error) {
        return h.svc.Play(r.Context(), id, pid, index)
    })
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    h.mutate(w, r, func(id, pid string) (*app.GameState, error) {
        return h.svc.Reset(r.Context(), id, pid)
    })
}

func (h *handlers) setDifficulty(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    d, err := domain.ParseDifficulty(r.Form.Get("difficulty"))
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    h.mutate(w, r, func(id, pid string) (*app.GameState, error) {
        return h.svc.SetDifficulty(r.Context(), id, pid, d)
    })
}

// mutate runs fn for the caller and answers with the board fragment. Rule
// violations are shown inside the fragment; unknown games are 404.
func (h *handlers) mutate(w http.ResponseWriter, r *http.Request, fn func(id, pid string) (*app.GameState, error)) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := fn(id, pid)
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            h.fail(w, r, err)
            return
        }
        errMsg = h.cat.Text(errorKey(err), nil)
        h.log.Debug("request rejected", zap.String("game_id", id), zap.Error(err))
        if gs, err = h.svc.Get(r.Context(), id); err != nil {
            h.fail(w, r, err)
            return
        }
    }
    h.writeBoard(w, gs, gs.Seat(pid), errMsg)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Get(r.Context(), id)
    if err != nil {
        h.fail(w, r, err)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    w.Header().Set("Cache-Control", "no-store")
    _ = json.NewEncoder(w).Encode(newStateView(h.cat, gs, gs.Seat(playerFromCookie(r))))
}

func (h *handlers) boardPNG(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Get(r.Context(), id)
    if err != nil {
        h.fail(w, r, err)
        return
    }
    size, _ := strconv.Atoi(r.URL.Query().Get("size"))
    if size < 0 || size > 256 {
        size = 0
    }
    img, err := render.PNG(r.Context(), gs.Game.Board, render.Options{
        CellSize: size,
        Caption:  statusLine(h.cat, gs, domain.Empty),
    })
    if err != nil {
        h.log.Error("render board failed", zap.String("game_id", id), zap.Error(err))
        http.Error(w, "render failed", http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "image/png")
    w.Header().Set("Cache-Control", "no-store")
    _, _ = w.Write(img)
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs *app.GameState, seat domain.Cell, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, seat, errMsg))
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
    if errors.Is(err, app.ErrNotFound) {
        http.NotFound(w, r)
        return
    }
    h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
    http.Error(w, "internal error", http.StatusInternalServerError)
}
