package quest

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
)

// Send encodes body and writes it into the request. Byte slices and strings are sent as-is, readers are read
// completely and any other value is encoded as JSON with a matching Content-Type. Content-Length is set to the exact
// size of the buffered body. A nil body or an empty string sends nothing and sets no length.
func (r *Request) Send(body any) error {
	data, contentType, err := encodeBody(body)
	if err != nil {
		return err
	}

	if data == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return ErrRequestEnded
	}

	if contentType != "" {
		r.header.Set("Content-Type", contentType)
	}

	r.body = append(r.body, data...)
	r.setLength()
	return nil
}

// encodeBody returns nil data when there is nothing to send.
func encodeBody(body any) (data []byte, contentType string, err error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case json.RawMessage:
		return nonNil(b), "application/json", nil
	case []byte:
		return nonNil(b), "", nil
	case string:
		if b == "" {
			return nil, "", nil
		}
		return []byte(b), "", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to read body")
		}
		return data, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Wrapf(ErrUnsupportedBody, "%T: %v", body, err)
		}
		return data, "application/json", nil
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
