package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "eq": func(a, b any) bool { return a == b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}
.cell{width:4rem;height:4rem;font-size:2rem}
.win{background:#f7dc6f}
.status{font-weight:bold;margin:.5rem 0}
.alert{color:#b00}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // the game page includes the board fragment
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic-Tac-Toe</h1>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-slot" hx-sse="swap:board">{{template "board" .}}</div>
</div>
<p><a href="/game/{{.ID}}/board.png">Snapshot</a> · <a href="/">New game</a></p>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post">
  <label>Mode
    <select name="mode">
      <option value="ai"{{if eq .Mode "ai"}} selected{{end}}>Against the computer</option>
      <option value="human"{{if eq .Mode "human"}} selected{{end}}>Two players</option>
    </select>
  </label>
  <label>Difficulty
    <select name="difficulty">
      {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button>Create</button>
</form>`

const boardTemplate = `
<div id="board">
  <div class="status">{{.Status}}</div>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{range .Rows}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="i" value="{{.Index}}">
        <button type="submit" class="cell{{if .Win}} win{{end}}"{{if or .Mark $.Over}} disabled{{end}}>{{.Mark}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Reset</button>
  </form>
  {{if .AI}}
  <form hx-post="/game/{{.ID}}/difficulty" hx-target="#board" hx-swap="outerHTML" method="post">
    <select name="difficulty">
      {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button type="submit">Set difficulty</button>
  </form>
  {{end}}
</div>
`

const playerCookie = "player_id"

// playerFromCookie returns the caller's player id, or "" without a cookie.
func playerFromCookie(r *http.Request) string {
    if c, err := r.Cookie(playerCookie); err == nil {
        return c.Value
    }
    return ""
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if v := playerFromCookie(r); v != "" {
        return v
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
    return v
}
