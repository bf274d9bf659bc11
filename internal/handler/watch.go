package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/filebridge/filebridge/internal/logger"
	"github.com/filebridge/filebridge/internal/utils"
)

// names come from upload events; strip anything but plain text before the
// template sees them
var namePolicy = bluemonday.StrictPolicy()

var watchTemplate = template.Must(template.New("watch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Name}}</title>
<style>
body { background: #0f0c29; color: #fff; font-family: sans-serif; display: flex; flex-direction: column; align-items: center; justify-content: center; min-height: 100vh; margin: 0; padding: 20px; }
video { max-width: 960px; width: 100%; border-radius: 8px; background: #000; }
.name { margin: 16px 0; color: rgba(255,255,255,0.7); max-width: 90%; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
a.download { color: #fff; background: #764ba2; padding: 10px 24px; border-radius: 8px; text-decoration: none; }
</style>
</head>
<body>
<video controls playsinline preload="auto">
<source src="{{.StreamUrl}}" type="video/mp4" />
Your browser does not support the video tag.
</video>
<div class="name">{{.Name}}</div>
<a class="download" href="{{.StreamUrl}}" download>Download</a>
</body>
</html>
`))

// Watch serves a minimal player page wrapping the /dl URL for the same
// token and fingerprint. The token itself is validated here so a broken link
// fails with 400 instead of a player that can never start.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if _, err := h.codec.Decode(token); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	hash := namePolicy.Sanitize(chi.URLParam(r, "hash"))
	name := namePolicy.Sanitize(chi.URLParam(r, "name"))
	streamUrl := fmt.Sprintf("%s/dl/%s/%s/%s", h.cfg.Public.BaseUrl, token, hash, name)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := watchTemplate.Execute(w, struct {
		Name      string
		StreamUrl string
	}{Name: name, StreamUrl: streamUrl})
	if err != nil {
		logger.Log.Error("render watch page", "err", err)
	}
}
