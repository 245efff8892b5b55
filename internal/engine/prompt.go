package engine

import (
	"strings"
	"text/template"

	"ragd/pkg/types"
)

// DefaultPromptTemplate numbers the retrieved chunks and asks for cited answers.
const DefaultPromptTemplate = `Answer the question using only the numbered context below. Cite sources as [n].
If the context does not contain the answer, say so.

Context:
{{range $i, $s := .Sources}}[{{inc $i}}] {{$s.Text}}
{{end}}
Question: {{.Query}}
Answer:`

type promptData struct {
	Query   string
	Sources []types.SearchResult
}

func parsePrompt(text string) (*template.Template, error) {
	return template.New("prompt").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		Option("missingkey=error").
		Parse(text)
}

func (e *Engine) renderPrompt(query string, sources []types.SearchResult) (string, error) {
	var b strings.Builder
	if err := e.prompt.Execute(&b, promptData{Query: query, Sources: sources}); err != nil {
		return "", err
	}
	return b.String(), nil
}
