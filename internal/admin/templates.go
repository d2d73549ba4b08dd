package admin

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"path"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.tmpl
var tplFS embed.FS

// one parsed set per page: layout + page, keyed by the page file name
type pageTemplates map[string]*template.Template

var funcs = template.FuncMap{
	"label":       label,
	"statusClass": statusClass,
	"orDefault":   orDefault,
	"clock": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
	"ago": humanize.Time,
}

func parseTemplates() pageTemplates {
	all, err := fs.Glob(tplFS, "templates/*.tmpl")
	if err != nil {
		log.Fatalf("admin: glob templates failed: %v", err)
	}
	if len(all) == 0 {
		log.Fatalf("admin: no templates found in embed FS")
	}

	out := make(pageTemplates)
	for _, f := range all {
		if path.Base(f) == "layout.tmpl" {
			continue
		}
		t := template.Must(template.New("layout").Funcs(funcs).ParseFS(tplFS, "templates/layout.tmpl", f))
		out[path.Base(f)] = t
	}
	return out
}
