package analysis

import (
	"fmt"
	"strings"
)

const analysisPrompt = `Analiza el siguiente extracto estructurado de una sentencia de la Corte Constitucional de Colombia. Responde con UN objeto JSON con estos campos:

- "magistrado_ponente": nombre del magistrado o magistrada ponente (string, "" si no aparece)
- "sala": sala que profiere la decisión, por ejemplo "Sala Plena" o "Sala Novena de Revisión" (string, "" si no aparece)
- "tipo_sentencia": una de "C", "T", "SU", "A" según el tipo de providencia
- "tema_principal": tema jurídico central en una frase (máximo 300 caracteres)
- "resumen": resumen editorial en markdown de 2 a 4 párrafos, fiel al texto, sin especulación
- "decision": síntesis de la parte resolutiva, orden por orden

Reglas:
- Usa únicamente la información del extracto; no inventes datos
- El resumen debe poder publicarse tal cual en un portal jurídico
- Si el extracto está incompleto, resume lo disponible y dilo en el resumen

Responde SOLO con el objeto JSON, sin texto adicional.`

// BuildPrompt assembles the full analysis prompt from the digest and the
// docket context the caller has.
func BuildPrompt(docketID, title, digest string) string {
	var sb strings.Builder
	sb.WriteString(analysisPrompt)
	sb.WriteString("\n\n---\n")
	if docketID != "" {
		sb.WriteString(fmt.Sprintf("Expediente: %s\n", docketID))
	}
	if title != "" {
		sb.WriteString(fmt.Sprintf("Documento: %q\n", title))
	}
	sb.WriteString("---\n")
	sb.WriteString(digest)
	return sb.String()
}
