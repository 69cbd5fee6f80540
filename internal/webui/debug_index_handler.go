package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"busradar.dev/internal/app"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

// WebUI serves development-only pages on top of the application state.
type WebUI struct {
	*app.Application
}

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "lines":
		result, err := webUI.Transit.Lines.Lines(r.Context())
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = result
		}
		title = "Lines"
	case "health":
		data = map[string]interface{}{
			"lines":     webUI.Transit.Lines.Status(),
			"startedAt": webUI.StartedAt,
			"warmer":    webUI.Warmer != nil,
		}
		title = "Health"
	case "config":
		data = webUI.Config
		title = "Configuration"
	default:
		data = map[string]string{
			"error": "Please use one of the following: lines, health, config.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
