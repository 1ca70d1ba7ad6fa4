package web

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"
    "nhooyr.io/websocket"
    "nhooyr.io/websocket/wsjson"

    "github.com/jaminalder/tictactoe-minimax/internal/domain"
)

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, err := h.svc.Get(r.Context(), id); err != nil {
        h.fail(w, r, err)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", name)
    for _, line := range bytes.Split(bytes.TrimRight(payload, "\n"), []byte("\n")) {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}

// wsCommand is a client request on the websocket.
type wsCommand struct {
    Op         string `json:"op"` // play, reset or difficulty
    Index      int    `json:"index"`
    Difficulty string `json:"difficulty,omitempty"`
}

// wsMessage is pushed to websocket clients.
type wsMessage struct {
    Type  string     `json:"type"` // state or error
    State *stateView `json:"state,omitempty"`
    Error string     `json:"error,omitempty"`
}

const wsWriteTimeout = 5 * time.Second

// ws streams the caller's view of the game as JSON and accepts commands.
// The caller's seat comes from the player cookie; without one it spectates.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := playerFromCookie(r)
    if _, err := h.svc.Get(r.Context(), id); err != nil {
        h.fail(w, r, err)
        return
    }
    c, err := websocket.Accept(w, r, nil)
    if err != nil {
        h.log.Debug("websocket accept failed", zap.String("game_id", id), zap.Error(err))
        return
    }
    defer c.Close(websocket.StatusInternalError, "unexpected close")

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()

    cmds := make(chan wsCommand)
    go func() {
        defer cancel()
        for {
            var cmd wsCommand
            if err := wsjson.Read(ctx, c, &cmd); err != nil {
                return
            }
            select {
            case cmds <- cmd:
            case <-ctx.Done():
                return
            }
        }
    }()

    if err := h.pushState(ctx, c, id, pid); err != nil {
        return
    }
    for {
        select {
        case <-ctx.Done():
            c.Close(websocket.StatusNormalClosure, "")
            return
        case _, ok := <-updates:
            if !ok {
                c.Close(websocket.StatusTryAgainLater, "too slow")
                return
            }
            if err := h.pushState(ctx, c, id, pid); err != nil {
                return
            }
        case cmd := <-cmds:
            if err := h.runCommand(ctx, id, pid, cmd); err != nil {
                msg := wsMessage{Type: "error", Error: h.cat.Text(errorKey(err), nil)}
                if err := h.write(ctx, c, msg); err != nil {
                    return
                }
            }
        }
    }
}

func (h *handlers) runCommand(ctx context.Context, id, pid string, cmd wsCommand) error {
    var err error
    switch cmd.Op {
    case "play":
        _, err = h.svc.Play(ctx, id, pid, cmd.Index)
    case "reset":
        _, err = h.svc.Reset(ctx, id, pid)
    case "difficulty":
        var d domain.Difficulty
        if d, err = domain.ParseDifficulty(cmd.Difficulty); err == nil {
            _, err = h.svc.SetDifficulty(ctx, id, pid, d)
        }
    default:
        err = fmt.Errorf("unknown op %q", cmd.Op)
    }
    if err != nil {
        h.log.Debug("websocket command rejected", zap.String("game_id", id), zap.String("op", cmd.Op), zap.Error(err))
    }
    return err
}

func (h *handlers) pushState(ctx context.Context, c *websocket.Conn, id, pid string) error {
    gs, err := h.svc.Get(ctx, id)
    if err != nil {
        if !errors.Is(err, context.Canceled) {
            h.log.Warn("websocket state load failed", zap.String("game_id", id), zap.Error(err))
        }
        return err
    }
    sv := newStateView(h.cat, gs, gs.Seat(pid))
    return h.write(ctx, c, wsMessage{Type: "state", State: &sv})
}

func (h *handlers) write(ctx context.Context, c *websocket.Conn, msg wsMessage) error {
    wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
    defer cancel()
    return wsjson.Write(wctx, c, msg)
}
