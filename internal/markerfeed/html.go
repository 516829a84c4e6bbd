package markerfeed

import (
	"context"
	"html/template"
	"io"
)

// DefaultMountClass is the class the riverflow page puts on its map element.
const DefaultMountClass = "zoomMap embeddedMap"

var snippetTmpl = template.Must(template.New("snippet").Parse(`<div id="{{.MountID}}" class="{{.Class}}"></div>
<script>
  options = {{.Options}};
  var markers = {{.Markers}};
  initMap(markers, options);
</script>
`))

var pageTmpl = template.Must(template.Must(snippetTmpl.Clone()).New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{range .Stylesheets}}<link rel="stylesheet" href="{{.}}">
{{end}}{{range .Scripts}}<script src="{{.}}"></script>
{{end}}</head>
<body>
{{template "snippet" .}}</body>
</html>
`))

type snippetData struct {
	MountID     string
	Class       string
	Title       string
	Options     upstreamOptions
	Markers     []upstreamMarker
	Scripts     []string
	Stylesheets []string
}

// HTMLEngine renders the feed as the map page snippet: a mount element and a
// script that declares the options and markers and calls initMap. The map
// library that defines initMap is expected to be loaded by the host page,
// unless Page is set, in which case a full document loading Scripts is
// written.
type HTMLEngine struct {
	W     io.Writer
	Class string

	Page        bool
	Title       string
	Scripts     []string
	Stylesheets []string
}

// InitMap implements Engine.
func (e *HTMLEngine) InitMap(ctx context.Context, markers []SiteMarker, cfg MapConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	class := e.Class
	if class == "" {
		class = DefaultMountClass
	}
	data := snippetData{
		MountID:     cfg.MountTargetID,
		Class:       class,
		Title:       e.Title,
		Options:     toUpstreamOptions(cfg),
		Markers:     toUpstreamMarkers(markers),
		Scripts:     e.Scripts,
		Stylesheets: e.Stylesheets,
	}
	tmpl := snippetTmpl
	if e.Page {
		tmpl = pageTmpl
	}
	return wrap("render html", tmpl.Execute(e.W, data))
}
