package segmenter

import (
	"strings"
	"testing"
)

func TestNormalize_LineEndings(t *testing.T) {
	input := "uno\r\ndos\rtres\n\n\n\ncuatro"
	want := "uno\ndos\ntres\n\ncuatro"
	if got := Normalize(input); got != want {
		t.Errorf("Normalize: expected %q, got %q", want, got)
	}
}

func TestNormalize_PreservesContent(t *testing.T) {
	// No case folding, no accent stripping.
	input := "SENTENCIA T-025\n\nAcción de tutela — artículo 86 de la Constitución."
	if got := Normalize(input); got != input {
		t.Errorf("Normalize altered already-normal text: %q", got)
	}
}

func TestSplitParagraphs_ShortNearAnchorSurvives(t *testing.T) {
	short := "PRIMERO.- Bien" // 14 chars, below the default threshold
	if len(short) >= minLenDefault {
		t.Fatalf("fixture must be below default threshold")
	}
	filler := strings.Repeat("texto de contexto previo al fallo. ", 10)
	input := filler + "\n\n" + short + "\n\nla sala resuelve lo que sigue en la parte final del documento"

	paras := splitParagraphs(Normalize(input))
	if !containsParagraph(paras, short) {
		t.Errorf("short paragraph near anchor was dropped: %v", texts(paras))
	}
}

func TestSplitParagraphs_ShortFarFromAnchorDropped(t *testing.T) {
	short := "PRIMERO.- Bien"
	var b strings.Builder
	b.WriteString(short)
	b.WriteString("\n\n")
	for b.Len() < 9500 {
		b.WriteString(strings.Repeat("relleno extenso del documento para alejar el ancla. ", 4))
		b.WriteString("\n\n")
	}
	b.WriteString("la corte resuelve al final")

	paras := splitParagraphs(Normalize(b.String()))
	if containsParagraph(paras, short) {
		t.Errorf("short paragraph far from anchor should be dropped")
	}
}

func TestSplitParagraphs_NoAnchorUsesDefaultThreshold(t *testing.T) {
	input := "corto" + "\n\n" + strings.Repeat("párrafo largo sin palabra clave de cierre alguna. ", 3)
	paras := splitParagraphs(Normalize(input))
	if len(paras) != 1 {
		t.Fatalf("expected 1 paragraph, got %d: %v", len(paras), texts(paras))
	}
	if containsParagraph(paras, "corto") {
		t.Errorf("short paragraph should be dropped without an anchor")
	}
}

func TestSplitParagraphs_OffsetsPointIntoSource(t *testing.T) {
	input := "  primer párrafo con longitud suficiente para el filtro de ruido.\n\n" +
		"segundo párrafo igualmente largo para conservarse tras el filtrado."
	norm := Normalize(input)
	for _, p := range splitParagraphs(norm) {
		if !strings.HasPrefix(norm[p.Offset:], p.Text) {
			t.Errorf("offset %d does not point at paragraph %q", p.Offset, prefix(p.Text, 30))
		}
	}
}

func containsParagraph(paras []Paragraph, text string) bool {
	for _, p := range paras {
		if p.Text == text {
			return true
		}
	}
	return false
}

func texts(paras []Paragraph) []string {
	out := make([]string, len(paras))
	for i, p := range paras {
		out[i] = prefix(p.Text, 30)
	}
	return out
}
