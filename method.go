package quest

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Methods lists every request method the client accepts. Method names are case-sensitive.
var Methods = []string{
	"ACL", "BIND", "CHECKOUT", "CONNECT", "COPY", "DELETE", "GET", "HEAD", "LINK", "LOCK",
	"M-SEARCH", "MERGE", "MKACTIVITY", "MKCALENDAR", "MKCOL", "MOVE", "NOTIFY", "OPTIONS",
	"PATCH", "POST", "PROPFIND", "PROPPATCH", "PURGE", "PUT", "QUERY", "REBIND", "REPORT",
	"SEARCH", "SOURCE", "SUBSCRIBE", "TRACE", "UNBIND", "UNLINK", "UNLOCK", "UNSUBSCRIBE",
}

// checkMethod fails for methods outside of [Methods].
func checkMethod(method string) error {
	if !lo.Contains(Methods, method) {
		return errors.Wrapf(ErrUnknownMethod, "%q", method)
	}

	return nil
}
