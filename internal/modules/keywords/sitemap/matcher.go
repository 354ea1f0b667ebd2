package sitemap

import (
	"strings"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
	"github.com/yungbote/seoplanner-backend/internal/modules/keywords/slug"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionCreate Action = "create"
)

type Decision struct {
	Action Action `json:"action"`
	URL    string `json:"url,omitempty"`
	// Protected is true when URL is an existing protected path.
	Protected bool `json:"protected"`
}

// Match maps a cluster onto an existing protected page, or proposes a new URL.
// The first protected page with a trigger contained in the name, or containing
// the name, wins.
func Match(clusterName string, intent seo.IntentLabel) Decision {
	name := strings.ToLower(strings.TrimSpace(clusterName))
	if name != "" {
		for _, p := range protectedPages {
			for _, trig := range p.Triggers {
				if strings.Contains(name, trig) || strings.Contains(trig, name) {
					return Decision{Action: ActionUpdate, URL: p.URL, Protected: true}
				}
			}
		}
	}
	return Decision{Action: ActionCreate, URL: SuggestURL(clusterName, intent)}
}

// SuggestURL routes informational clusters under /blog/ and the rest under /servicios/.
func SuggestURL(clusterName string, intent seo.IntentLabel) string {
	s := slug.Make(clusterName)
	if s == "" {
		return ""
	}
	if intent == seo.IntentInformational {
		return "/blog/" + s + "/"
	}
	return "/servicios/" + s + "/"
}

func canonical(url string) string {
	u := strings.ToLower(strings.TrimSpace(url))
	if u == "" {
		return ""
	}
	return strings.TrimSuffix(u, "/") + "/"
}
