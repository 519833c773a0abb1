package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	"github.com/dustin/go-humanize"

	"poll-maker/internal/platform/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/base.html"

var templateFuncs = template.FuncMap{
	"ago":   humanize.Time,
	"comma": humanize.Comma,
	"percent": func(p float64) string {
		return strconv.FormatFloat(p, 'f', 1, 64)
	},
	"inc": func(i int) int { return i + 1 },
}

var pages = mustParsePages()

// mustParsePages pairs every page template with the shared layout.
func mustParsePages() map[string]*template.Template {
	layout := template.Must(template.New(path.Base(layoutFile)).Funcs(templateFuncs).ParseFS(templateFS, layoutFile))

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	out := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t := template.Must(template.Must(layout.Clone()).ParseFS(templateFS, file))
		out[path.Base(file)] = t
	}
	return out
}

type pageData struct {
	Title   string
	User    *session.State
	Flashes []session.Flash
	Data    any
}

func sessionState(r *http.Request) *session.State {
	return session.FromContext(r.Context())
}

// render writes page with the layout. Queued flashes are consumed here, so
// they appear on exactly one rendered page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	t, ok := pages[page]
	if !ok {
		slogLogger.Error("unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	st := sessionState(r)
	pd := pageData{
		Title:   title,
		User:    st,
		Flashes: h.sessions.TakeFlashes(w, st),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", pd); err != nil {
		slogLogger.Error("render template", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirect carries pending flashes over to the next request.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if err := h.sessions.SaveFlashes(w, sessionState(r)); err != nil {
		slogLogger.Warn("save flashes", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
