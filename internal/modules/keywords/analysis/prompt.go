package analysis

import (
	"fmt"
	"strings"
)

const analysisPrompt = `Eres un consultor SEO senior. Analiza semánticamente estas keywords en español.

Keywords:
%s

Devuelve SOLO un objeto JSON con esta forma:
{
  "duplicates": [{"canonical": "...", "keywords": ["..."], "reason": "..."}],
  "clusters": [{"name": "...", "intent": "informational|transactional|commercial|navigational", "pillar_keyword": "...", "keywords": ["..."]}],
  "canibalizations": [{"keywords": ["..."], "recommendation": "..."}],
  "intentions": {"<keyword>": "informational|transactional|commercial|navigational"}
}
Usa las keywords exactamente como aparecen.`

const structurePrompt = `Eres un arquitecto de información SEO. Propón una arquitectura en silos para estas keywords.
%s
Keywords:
%s

Devuelve SOLO un objeto JSON con esta forma:
{
  "silos": [{"name": "...", "categories": [{"name": "...", "pages": [{
    "main_keyword": "...", "secondary_keywords": ["..."], "type": "service|blog|landing",
    "is_pillar": false, "intent": "informational|transactional|commercial|navigational",
    "entity": "...", "content_difficulty": 0, "internal_linking": ["slug"]
  }]}]}],
  "intentions": {"<keyword>": "informational|transactional|commercial|navigational"}
}
No incluyas keywords que no encajen; las omitidas se descartarán.`

const validationPrompt = `Eres un auditor SEO. Revisa estas URLs propuestas para un sitio en español.
Estas rutas ya existen y no pueden eliminarse ni reasignarse:
%s

URLs:
%s

Devuelve SOLO un objeto JSON con esta forma:
{
  "urls": [{"url": "...", "valid": true, "issue": "...", "suggestion": "..."}],
  "validation": {"valid": true, "issues": ["..."], "summary": "..."}
}`

func bullet(items []string) string {
	var b strings.Builder
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func AnalysisPrompt(keywords []string) string {
	return fmt.Sprintf(analysisPrompt, bullet(keywords))
}

// StructurePrompt optionally names the existing silos so the model reuses them.
func StructurePrompt(keywords []string, existingSilos []string) string {
	ctx := ""
	if len(existingSilos) > 0 {
		ctx = "\nSilos existentes (reutilízalos si encajan):\n" + bullet(existingSilos) + "\n"
	}
	return fmt.Sprintf(structurePrompt, ctx, bullet(keywords))
}

func ValidationPrompt(urls []string, protected []string) string {
	return fmt.Sprintf(validationPrompt, bullet(protected), bullet(urls))
}
