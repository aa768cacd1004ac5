package web

import (
	"html/template"

	"github.com/blogi/site-search/internal/render"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="base-url" content="{{.BaseURL}}">
  <title>{{.Title}}</title>
</head>
<body>
  <main class="search-page">
    <form role="search" action="" method="get">
      <input type="search" id="search-input" name="q" value="{{.Query}}" placeholder="Search..." autocomplete="off" autofocus>
      <button type="submit">Search</button>
    </form>
    <div id="search-results">
{{template "view" .View}}
    </div>
  </main>
</body>
</html>
`

// newPageTemplate adds the page layout to the results template so the
// container is rendered by the same "view" definition.
func newPageTemplate(h *render.HTML) *template.Template {
	tmpl := template.Must(h.Template().Clone())
	return template.Must(tmpl.New("page").Parse(pageTemplate))
}
