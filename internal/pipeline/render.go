package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/juridica/jurigest/internal/analysis"
)

// RenderArticle converts an analysis result into an HTML article.
// The resumen is treated as Markdown; the remaining fields become a
// header block above it.
func RenderArticle(docketID string, a analysis.Analysis) (string, error) {
	var sb strings.Builder
	sb.WriteString("<article class=\"sentencia\">\n")

	title := docketID
	if a.SentenceType != "" {
		title = fmt.Sprintf("%s (%s)", docketID, a.SentenceType)
	}
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(title))

	sb.WriteString("<dl class=\"metadata\">\n")
	writeField(&sb, "Magistrado ponente", a.Magistrate)
	writeField(&sb, "Sala", a.Chamber)
	writeField(&sb, "Tema", a.Theme)
	writeField(&sb, "Decisión", a.Decision)
	sb.WriteString("</dl>\n")

	if a.Summary != "" {
		var body bytes.Buffer
		if err := goldmark.Convert([]byte(a.Summary), &body); err != nil {
			return "", fmt.Errorf("render resumen: %w", err)
		}
		sb.WriteString("<section class=\"resumen\">\n")
		sb.Write(body.Bytes())
		sb.WriteString("</section>\n")
	}

	sb.WriteString("</article>\n")
	return sb.String(), nil
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "<dt>%s</dt><dd>%s</dd>\n", html.EscapeString(label), html.EscapeString(value))
}
