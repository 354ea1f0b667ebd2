package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

// MalformedResponseError means the model reply could not be trusted as Kind.
// It is always retryable.
type MalformedResponseError struct {
	Kind    Kind
	Missing []string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("malformed %s response: missing %s", e.Kind, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("malformed %s response: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("malformed %s response", e.Kind)
	}
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == seo.ErrRetryable }

func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}

var requiredKeys = map[Kind][]string{
	KindAnalysis:   {"clusters", "intentions"},
	KindStructure:  {"silos"},
	KindValidation: {"urls", "validation"},
}

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// StripFences returns the body of the first fenced code block, or the trimmed
// input when there is none. Leading prose before a bare object is dropped.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if i := strings.IndexAny(s, "{["); i > 0 {
		if j := strings.LastIndexAny(s, "}]"); j > i {
			return s[i : j+1]
		}
	}
	return s
}

// Parse decodes raw as kind after checking every required top-level key is present and non-null.
func Parse(raw string, kind Kind) (Response, error) {
	body := StripFences(raw)
	if body == "" {
		return Response{}, &MalformedResponseError{Kind: kind, Err: errors.New("empty response")}
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return Response{}, &MalformedResponseError{Kind: kind, Err: err}
	}
	required, ok := requiredKeys[kind]
	if !ok {
		return Response{}, fmt.Errorf("unknown response kind %q", kind)
	}
	var missing []string
	for _, k := range required {
		v, ok := top[k]
		if !ok || string(v) == "null" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Response{}, &MalformedResponseError{Kind: kind, Missing: missing}
	}

	out := Response{Kind: kind}
	var err error
	switch kind {
	case KindAnalysis:
		out.Analysis = &AnalysisPayload{}
		err = json.Unmarshal([]byte(body), out.Analysis)
	case KindStructure:
		out.Structure = &seo.Proposal{}
		err = json.Unmarshal([]byte(body), out.Structure)
	case KindValidation:
		out.Validation = &ValidationPayload{}
		err = json.Unmarshal([]byte(body), out.Validation)
	}
	if err != nil {
		return Response{}, &MalformedResponseError{Kind: kind, Err: err}
	}
	return out, nil
}

// Detect picks the shape from the keys present, trying analysis, structure, then validation.
func Detect(raw string) (Response, error) {
	var lastErr error
	for _, k := range []Kind{KindAnalysis, KindStructure, KindValidation} {
		resp, err := Parse(raw, k)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return Response{}, lastErr
}
