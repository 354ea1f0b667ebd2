package naming

// spanishStopwords is matched against lowercased tokens, accented and plain forms both listed.
var spanishStopwords = toSet(
	"de", "la", "el", "en", "y", "a", "los", "las", "del", "al", "un", "una", "unos", "unas",
	"por", "para", "con", "sin", "sobre", "entre", "hasta", "desde", "hacia", "tras",
	"que", "qué", "como", "cómo", "cual", "cuál", "cuales", "cuáles", "cuando", "cuándo",
	"donde", "dónde", "quien", "quién", "cuanto", "cuánto", "cuanta", "cuánta",
	"es", "son", "ser", "esta", "está", "estan", "están", "hay", "fue", "era",
	"lo", "le", "les", "se", "su", "sus", "mi", "mis", "tu", "tus", "nos",
	"este", "esta", "esto", "estos", "estas", "ese", "esa", "eso", "esos", "esas",
	"mas", "más", "muy", "pero", "o", "u", "ni", "si", "sí", "no", "ya", "tambien", "también",
	"todo", "toda", "todos", "todas", "otro", "otra", "otros", "otras",
	"porque", "pues", "segun", "según", "cada",
)

func toSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
