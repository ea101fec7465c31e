package questcli_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/advdv/quest"
	"github.com/advdv/quest/internal/questcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/pretty"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := questcli.NewCommand(questcli.Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Widget", "sprocket")
		fmt.Fprint(w, "hello, world")
	})
	mux.HandleFunc("/widgets", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":1,"tags":["a","b"]}`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s|%s|%s|%s", r.Method, r.Header.Get("Content-Type"), r.Header.Get("X-Tag"), body)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Error", "widget not found")
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCommandGet(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, "", srv.URL+"/hello")
	require.NoError(t, err)
	require.Equal(t, "hello, world", out)
}

func TestCommandInclude(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, "", "-i", srv.URL+"/hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "200 OK\n"), out)
	assert.Contains(t, out, "\nx-widget: sprocket\n")
	assert.True(t, strings.HasSuffix(out, "\n\nhello, world"), out)
}

func TestCommandJSON(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, "", "--json", srv.URL+"/widgets")
	require.NoError(t, err)
	require.Equal(t, string(pretty.Pretty([]byte(`{"id":1,"tags":["a","b"]}`))), out)

	_, err = execute(t, "", "--json", srv.URL+"/html")
	require.Error(t, err)

	var qerr *quest.Error
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, quest.KindParse, qerr.Kind())
	require.Equal(t, questcli.ExitFailure, questcli.ExitCode(err))
}

func TestCommandSendBody(t *testing.T) {
	srv := newServer(t)

	out, err := execute(t, "", "-d", "plain", srv.URL+"/echo")
	require.NoError(t, err)
	require.Equal(t, "POST|||plain", out)

	out, err = execute(t, "", "put", srv.URL+"/echo", "--json-body", "-d", `{"a": 1}`, "-H", "X-Tag: one", "-H", "x-tag: two")
	require.NoError(t, err)
	require.Equal(t, `PUT|application/json|one,two|{"a": 1}`, out)

	out, err = execute(t, "from stdin", "-d", "@-", srv.URL+"/echo")
	require.NoError(t, err)
	require.Equal(t, "POST|||from stdin", out)

	_, err = execute(t, "", "--json-body", "-d", "{nope", srv.URL+"/echo")
	require.ErrorIs(t, err, quest.ErrUnsupportedBody)
}

func TestCommandUsageErrors(t *testing.T) {
	srv := newServer(t)

	_, err := execute(t, "", "-H", "no colon", srv.URL+"/hello")
	require.ErrorIs(t, err, quest.ErrInvalidHeader)

	_, err = execute(t, "", "brew", srv.URL+"/hello")
	require.ErrorIs(t, err, quest.ErrUnknownMethod)

	_, err = execute(t, "", "example.com")
	require.ErrorIs(t, err, quest.ErrUnsupportedURL)
	require.Equal(t, questcli.ExitFailure, questcli.ExitCode(err))

	_, err = execute(t, "")
	require.Error(t, err)
}

func TestCommandFailures(t *testing.T) {
	srv := newServer(t)

	t.Run("http", func(t *testing.T) {
		out, err := execute(t, "", "-i", srv.URL+"/missing")
		require.Empty(t, out)
		require.Equal(t, quest.CodeNotFound, quest.CodeOf(err))
		require.Contains(t, err.Error(), "widget not found")
		require.Equal(t, questcli.ExitHTTP, questcli.ExitCode(err))
	})

	t.Run("redirects", func(t *testing.T) {
		_, err := execute(t, "", "--max-redirects", "2", srv.URL+"/loop")
		require.Equal(t, quest.TransportTooManyRedirects, quest.TransportCodeOf(err))
		require.Equal(t, questcli.ExitTooManyRedirects, questcli.ExitCode(err))
	})

	t.Run("redirects from environment", func(t *testing.T) {
		t.Setenv("QUEST_MAX_REDIRECTS", "0")

		_, err := execute(t, "", srv.URL+"/loop")
		require.Equal(t, quest.TransportTooManyRedirects, quest.TransportCodeOf(err))
	})

	t.Run("transport", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()

		_, err := execute(t, "", closed.URL)
		require.Equal(t, quest.TransportRefused, quest.TransportCodeOf(err))
		require.Equal(t, questcli.ExitConnect, questcli.ExitCode(err))
	})
}

func TestCommandTracing(t *testing.T) {
	t.Setenv("QUEST_OTEL_EXPORTER", "stdout")
	srv := newServer(t)

	var out, errOut bytes.Buffer
	cmd := questcli.NewCommand(questcli.Streams{In: strings.NewReader(""), Out: &out, Err: &errOut})
	cmd.SetArgs([]string{srv.URL + "/hello"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Equal(t, "hello, world", out.String())
	require.Contains(t, errOut.String(), `"GET /hello"`)
}

func TestCommandLogsToErrorStream(t *testing.T) {
	t.Setenv("QUEST_LOG_LEVEL", "debug")
	srv := newServer(t)

	var out, errOut bytes.Buffer
	cmd := questcli.NewCommand(questcli.Streams{In: strings.NewReader(""), Out: &out, Err: &errOut})
	cmd.SetArgs([]string{srv.URL + "/hello"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Equal(t, "hello, world", out.String())
	require.Contains(t, errOut.String(), `"msg":"sending request"`)
}

func TestCommandSock(t *testing.T) {
	dir, err := os.MkdirTemp("", "quest")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "cli.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s", r.Host, r.URL.Path)
	})}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	out, err := execute(t, "", "--sock", path, "/info")
	require.NoError(t, err)
	require.Equal(t, "localhost /info", out)

	t.Setenv("QUEST_SOCKET", path)
	out, err = execute(t, "", "/version")
	require.NoError(t, err)
	require.Equal(t, "localhost /version", out)
}

func TestExitCode(t *testing.T) {
	require.Equal(t, questcli.ExitFailure, questcli.ExitCode(io.EOF))
}
