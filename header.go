package quest

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"golang.org/x/net/http/httpguts"
)

// Header describes outgoing request headers. Values may be of any type: nil values are dropped, string slices and
// other slices are joined with commas and everything else is converted to its string form. Names are case-insensitive,
// so two keys that differ only in case are rejected.
type Header map[string]any

// normalizeHeader turns h into a transmittable http.Header.
func normalizeHeader(h Header) (http.Header, error) {
	out := make(http.Header, len(h))
	seen := make(map[string]string, len(h))
	for name, raw := range h {
		key := http.CanonicalHeaderKey(name)
		if other, ok := seen[key]; ok {
			return nil, errors.Wrapf(ErrInvalidHeader, "%q and %q name the same header", other, name)
		}
		seen[key] = name

		if raw == nil {
			continue
		}

		if !httpguts.ValidHeaderFieldName(name) {
			return nil, errors.Wrapf(ErrInvalidHeader, "name %q", name)
		}

		value, err := headerValue(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidHeader, "%s: %v", name, err)
		}

		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, errors.Wrapf(ErrInvalidHeader, "value of %q", name)
		}

		out.Set(name, value)
	}

	return out, nil
}

func headerValue(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ","), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}

			s, err := cast.ToStringE(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return cast.ToStringE(v)
	}
}
