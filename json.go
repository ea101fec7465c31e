package quest

import (
	"encoding/json"
	"io"
)

// ParseJSON drains r and parses what it delivered as JSON. An empty body yields nil without an error. A body that is
// not valid JSON fails with an [*Error] of kind [KindParse] that carries the raw body.
func ParseJSON(r io.Reader) (any, error) {
	var v any
	if err := DecodeJSON(r, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// DecodeJSON drains r and decodes it into v, like [ParseJSON]. v is left untouched when the body is empty.
func DecodeJSON(r io.Reader, v any) error {
	body, err := Drain(r)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		var o origin
		if s, ok := r.(*Stream); ok {
			o = s.origin
		}

		perr := o.errorf(KindParse, CodeUnknown, "%s", err.Error())
		perr.body = body
		perr.cause = err
		return perr
	}

	return nil
}
