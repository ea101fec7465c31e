package quest

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
)

// maxErrorBody bounds how much of a failed response's body is inspected for an error message.
const maxErrorBody = 1 << 20

// Ok sends req and classifies the outcome into exactly one of a response or an [*Error]:
//
//   - a transport failure rejects with [KindTransport] and the transport's code and message
//   - a 2xx status resolves with the response
//   - a 301 or 302 with a Location header is followed with a new request that keeps the method, headers and body,
//     its outcome becomes the outcome of req
//   - a 4xx or 5xx status rejects with [KindHTTP]. The message is taken from the "error" header, the "x-error"
//     header or the "error" field of a JSON body (whose "code" field then overrides the status), in that order, and
//     falls back to the status and its reason phrase
//   - any other status resolves with the response
//
// The request is finalized by Ok: writing to it afterwards fails. The caller must close the body of a resolved
// response.
func (c *Client) Ok(ctx context.Context, req *Request) (*Response, error) {
	res, err := c.resolve(ctx, req, origin{method: req.method, url: req.url.String()}, 0)
	c.metrics.observe(res, err)

	return res, err
}

func (c *Client) resolve(ctx context.Context, req *Request, o origin, hops int) (*Response, error) {
	hreq, err := req.end(ctx)
	if err != nil {
		return nil, err
	}

	hres, err := c.transport.RoundTrip(hreq)
	if err != nil {
		req.Destroy()
		return nil, o.transportError(err)
	}

	switch status := hres.StatusCode; {
	case status >= 200 && status < 300:
	case status >= 400 && status < 600:
		defer req.release()
		return nil, o.httpError(hres)
	case status == http.StatusMovedPermanently || status == http.StatusFound:
		location := hres.Header.Get("Location")
		if location == "" {
			break
		}

		discard(hres.Body)
		req.release()

		if c.maxRedirects >= 0 && hops >= c.maxRedirects {
			return nil, o.tooManyRedirects(hops)
		}

		next, err := req.redirect(location)
		if err != nil {
			rerr := o.errorf(KindRedirect, Code(status), "invalid redirect location %q", location)
			rerr.cause = err
			return nil, rerr
		}

		c.logs.LogRedirect(req.url.String(), next.url.String(), status)
		c.metrics.redirected(status)

		return c.resolve(ctx, next, o, hops+1)
	}

	return newResponse(req, hres), nil
}

// httpError classifies a 4xx or 5xx response and closes its body.
func (o origin) httpError(res *http.Response) *Error {
	defer res.Body.Close()

	code := res.StatusCode
	msg := res.Header.Get("Error")
	if msg == "" {
		msg = res.Header.Get("X-Error")
	}

	if msg == "" {
		msg, code = bodyErrorMessage(res.Body, code)
	}

	if msg == "" {
		msg = statusMessage(res.StatusCode)
	}

	err := o.errorf(KindHTTP, Code(code), "%s", msg)
	err.header = res.Header
	return err
}

// bodyErrorMessage looks for an "error" field in a JSON body. Bodies that cannot be read or parsed yield no message.
func bodyErrorMessage(r io.Reader, status int) (string, int) {
	body, err := Drain(io.LimitReader(r, maxErrorBody))
	if err != nil || !gjson.ValidBytes(body) {
		return "", status
	}

	msg := gjson.GetBytes(body, "error")
	if !truthy(msg) {
		return "", status
	}

	code := gjson.GetBytes(body, "code")
	switch code.Type {
	case gjson.Number:
		if n := int(code.Int()); n != 0 {
			status = n
		}
	case gjson.String:
		if n, err := strconv.Atoi(code.Str); err == nil && n != 0 {
			status = n
		}
	}

	return msg.String(), status
}

// truthy reports whether a JSON value counts as present: not null, false, zero or the empty string.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return v.Exists()
	}
}

func (o origin) tooManyRedirects(hops int) *Error {
	err := o.errorf(KindRedirect, CodeUnknown, "stopped after %d redirects", hops)
	err.transport = TransportTooManyRedirects
	err.cause = ErrTooManyRedirects
	return err
}

// discard reads a little of body so its connection can be reused, then closes it.
func discard(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}
