package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/boddenberg/moza-banking-bfa-go/internal/domain"
	"github.com/boddenberg/moza-banking-bfa-go/internal/service"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates, each rendered inside templates/layout.html.
const (
	pageLogin = "login.html"
	pageAdmin = "admin_dashboard.html"
	pageUser  = "user_dashboard.html"
)

var pageFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"datetime": func(ts domain.Timestamp) string {
		if ts.IsZero() {
			return ""
		}
		return ts.Format("02/01/2006 15:04")
	},
	"direction": func(tx domain.Transaction) string {
		if tx.Sent() {
			return "Enviada"
		}
		return "Recebida"
	},
	"isError": func(n service.Notice) bool { return n.Level == service.NoticeError },
}

var pages = map[string]*template.Template{
	pageLogin: mustParsePage(pageLogin),
	pageAdmin: mustParsePage(pageAdmin),
	pageUser:  mustParsePage(pageUser),
}

func mustParsePage(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(pageFuncs).
		ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// renderPage executes a page into a buffer first so a template failure never
// leaves a half-written response.
func renderPage(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
