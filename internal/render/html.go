package render

import (
	"html/template"
	"io"
)

// HTML renders views as the markup of the search results container.
type HTML struct {
	tmpl *template.Template
}

const htmlTemplate = `{{define "segments"}}{{range .}}{{if .Match}}<mark>{{.Text}}</mark>{{else}}{{.Text}}{{end}}{{end}}{{end}}
{{- define "view"}}
{{- if eq .State.String "prompt"}}<p class="search-instructions">{{.Message}}</p>
{{- else if eq .State.String "loading"}}<p class="text-warning">{{.Message}}</p>
{{- else if eq .State.String "error"}}<p class="text-danger">{{.Message}}</p>
{{- else if eq .State.String "no_results"}}
<div class="search-no-results">
  <h3>{{.Message}}</h3>
  <p>{{hint}}</p>
  {{- if .DidYouMean}}
  <div class="search-did-you-mean">
    <p>{{didYouMeanLabel}}</p>
    <ul>
    {{- range .DidYouMean}}
      <li>{{.}}</li>
    {{- end}}
    </ul>
  </div>
  {{- end}}
  <div class="search-suggestions">
    <p>{{suggestionsLabel}}</p>
    <ul>
    {{- range suggestions}}
      <li>{{.}}</li>
    {{- end}}
    </ul>
  </div>
</div>
{{- else}}
<div class="search-results-header">
  <h3>{{.Message}}</h3>
</div>
<div class="search-results-list">
{{- range .Items}}
  <div class="search-result-item">
    <h4><a href="{{.URL}}">{{template "segments" .Title}}</a></h4>
    <p class="search-result-excerpt">{{template "segments" .Excerpt}}</p>
    <div class="search-result-meta">
      {{- if .Date}}
      <span class="search-result-date"><i class="feather" data-feather="calendar"></i> {{.Date}}</span>
      {{- end}}
      <span class="search-result-type"><i class="feather" data-feather="file-text"></i> {{.Type}}</span>
      {{- if .Categories}}
      <span class="search-result-categories"><i class="feather" data-feather="folder"></i> {{.Categories}}</span>
      {{- end}}
      {{- if .Tags}}
      <span class="search-result-tags"><i class="feather" data-feather="tag"></i> {{.Tags}}</span>
      {{- end}}
    </div>
  </div>
{{- end}}
</div>
{{- end}}
{{end}}`

var htmlFuncs = template.FuncMap{
	"hint":             func() string { return NoResultsHint },
	"suggestionsLabel": func() string { return SuggestionsLabel },
	"didYouMeanLabel":  func() string { return DidYouMeanLabel },
	"suggestions":      func() []string { return StaticSuggestions },
}

// NewHTML parses the results template.
func NewHTML() *HTML {
	return &HTML{
		tmpl: template.Must(template.New("results").Funcs(htmlFuncs).Parse(htmlTemplate)),
	}
}

// Template exposes the parsed template so pages can embed the "view"
// definition.
func (h *HTML) Template() *template.Template {
	return h.tmpl
}

// Render writes the container markup for v.
func (h *HTML) Render(w io.Writer, v View) error {
	return h.tmpl.ExecuteTemplate(w, "view", v)
}
