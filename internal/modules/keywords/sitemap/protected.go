package sitemap

// ProtectedPage is an existing site path with the cluster names that map onto it.
type ProtectedPage struct {
	URL      string
	Triggers []string
}

// protectedPages is checked in order; more specific paths come before their parents.
var protectedPages = []ProtectedPage{
	{URL: "/servicios/seo/local/", Triggers: []string{"seo local", "posicionamiento local", "google my business", "google business profile", "ficha de google"}},
	{URL: "/servicios/seo/ecommerce/", Triggers: []string{"seo ecommerce", "seo para tiendas", "seo tienda online", "posicionamiento ecommerce"}},
	{URL: "/servicios/seo/internacional/", Triggers: []string{"seo internacional", "seo multidioma", "hreflang"}},
	{URL: "/servicios/seo/tecnico/", Triggers: []string{"seo tecnico", "seo técnico", "auditoria seo", "auditoría seo", "core web vitals"}},
	{URL: "/servicios/seo/", Triggers: []string{"agencia seo", "posicionamiento web", "posicionamiento seo", "consultor seo", "servicios seo"}},
	{URL: "/servicios/sem/", Triggers: []string{"sem", "google ads", "publicidad en google", "ppc", "campañas de pago"}},
	{URL: "/servicios/redes-sociales/", Triggers: []string{"redes sociales", "social media", "community manager", "publicidad en redes"}},
	{URL: "/servicios/diseno-web/", Triggers: []string{"diseño web", "diseno web", "desarrollo web", "pagina web", "página web", "wordpress"}},
	{URL: "/servicios/tiendas-online/", Triggers: []string{"tienda online", "tiendas online", "ecommerce", "woocommerce", "shopify", "prestashop"}},
	{URL: "/servicios/marketing-contenidos/", Triggers: []string{"marketing de contenidos", "copywriting", "redaccion seo", "redacción seo"}},
	{URL: "/servicios/email-marketing/", Triggers: []string{"email marketing", "newsletter", "mailing"}},
	{URL: "/servicios/analitica-web/", Triggers: []string{"analitica web", "analítica web", "google analytics", "tag manager"}},
	{URL: "/servicios/cro/", Triggers: []string{"cro", "optimizacion de conversion", "optimización de conversión", "tasa de conversion"}},
	{URL: "/servicios/", Triggers: []string{"servicios de marketing", "agencia de marketing", "marketing digital"}},
	{URL: "/blog/", Triggers: []string{"blog"}},
	{URL: "/contacto/", Triggers: []string{"contacto", "contactar", "presupuesto"}},
}

// ProtectedURLs lists every protected path in precedence order.
func ProtectedURLs() []string {
	out := make([]string, 0, len(protectedPages))
	for _, p := range protectedPages {
		out = append(out, p.URL)
	}
	return out
}

// IsProtected reports whether url is one of the protected paths. Trailing slash and case are ignored.
func IsProtected(url string) bool {
	u := canonical(url)
	if u == "" {
		return false
	}
	for _, p := range protectedPages {
		if canonical(p.URL) == u {
			return true
		}
	}
	return false
}
