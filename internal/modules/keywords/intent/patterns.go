package intent

import (
	"regexp"
	"strings"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

// Pattern is one signal inside a category; Name is what ends up in MatchedPatterns.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

func (p Pattern) Match(s string) bool { return p.re.MatchString(s) }

// Category groups the patterns of one intent. Categories are evaluated in slice
// order and ties go to the earlier one.
type Category struct {
	Intent   seo.IntentLabel
	Weight   float64
	Patterns []Pattern
}

// term builds a case-insensitive pattern bounded by non-letters so accented
// neighbours still count as word edges. Terms are matched as written: input is
// not normalised, so an unaccented term does not match its accented spelling.
func term(name string, expr string) Pattern {
	if expr == "" {
		expr = regexp.QuoteMeta(name)
	}
	expr = strings.ReplaceAll(expr, " ", `\s+`)
	return Pattern{
		Name: name,
		re:   regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(?:` + expr + `)(?:$|[^\pL\pN])`),
	}
}

func terms(names ...string) []Pattern {
	out := make([]Pattern, 0, len(names))
	for _, n := range names {
		out = append(out, term(n, ""))
	}
	return out
}

// DefaultCategories is the Spanish rule set. Transactional carries the highest
// weight and is listed first.
func DefaultCategories() []Category {
	return []Category{
		{
			Intent: seo.IntentTransactional,
			Weight: 1.2,
			Patterns: append(terms(
				"comprar", "compra", "tienda", "venta", "contratar", "presupuesto",
				"cuanto cuesta", "envio gratis", "alquiler", "reservar", "pedido",
				"agencia", "empresa de", "servicio de", "servicios de",
			),
				term("precio", `precios?`),
				term("barato", `barat[oa]s?`),
				term("oferta", `ofertas?`),
				term("descuento", `descuentos?`),
				term("cupon", `cupon(?:es)?`),
				term("tarifa", `tarifas?`),
			),
		},
		{
			Intent: seo.IntentInformational,
			Weight: 1.0,
			Patterns: append(terms(
				"por que", "para que sirve", "guia", "tutorial", "definicion",
				"significado", "tipos de", "consejos", "trucos", "ideas", "aprender",
				"pasos", "historia", "quien",
			),
				term("que", `qu[eé]`),
				term("que es", `qu[eé] es`),
				term("como", `c[oó]mo`),
				term("cual", `cu[aá]l(?:es)?`),
				term("cuando", `cu[aá]ndo`),
				term("donde", `d[oó]nde`),
				term("ejemplo", `ejemplos?`),
			),
		},
		{
			Intent: seo.IntentCommercial,
			Weight: 1.0,
			Patterns: append(terms(
				"top", "comparativa", "comparar", "comparacion", "vs", "versus",
				"opiniones", "ranking", "analisis", "pros y contras",
				"merece la pena", "vale la pena",
			),
				term("mejor", `mejor(?:es)?`),
				term("review", `reviews?`),
				term("resena", `resenas?`),
				term("alternativa", `alternativas?`),
				term("recomendado", `recomendad[oa]s?`),
			),
		},
		{
			Intent: seo.IntentNavigational,
			Weight: 0.8,
			Patterns: terms(
				"login", "iniciar sesion", "acceso", "web oficial", "pagina oficial",
				"contacto", "telefono", "direccion", "horario", "cerca de mi", "app",
				"facebook", "youtube", "instagram", "gmail", "whatsapp", "linkedin",
			),
		},
	}
}
