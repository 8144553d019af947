package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/Paul200287/GradeTracker/internal/utils"
	"github.com/Paul200287/GradeTracker/users"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"

	layoutTemplate = "layout.html"
)

// Page templates, each rendered inside layout.html.
const (
	pageLogin       = "login.html"
	pageDashboard   = "dashboard.html"
	pageSubjectEdit = "subject_edit.html"
	pageProfile     = "profile.html"
)

var pageNames = []string{pageLogin, pageDashboard, pageSubjectEdit, pageProfile}

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"display": func(ts utils.Timestamp) string {
		if ts.IsZero() {
			return "-"
		}
		return ts.Display()
	},
	"value": utils.Value[string],
	"year": func() int {
		return time.Now().Year()
	},
}

// basePage is what the layout needs from every page.
type basePage struct {
	AppName string
	Title   string
	Active  string
	User    *users.User
	Error   string
	Notice  string
}

// pageSet holds one parsed template tree per page.
type pageSet struct {
	pages map[string]*template.Template
}

func parsePages() (*pageSet, error) {
	fsys := TemplateFilesFS()
	set := &pageSet{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(fsys, layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("[parsePages] %s: %w", name, err)
		}
		set.pages[name] = tmpl
	}
	return set, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (p *pageSet) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := p.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("Unknown page template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
