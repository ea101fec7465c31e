package questcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/advdv/quest"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

// Exit codes, chosen to match curl where it has an equivalent.
const (
	ExitFailure          = 1
	ExitConnect          = 7
	ExitHTTP             = 22
	ExitTooManyRedirects = 47
)

// ExitCode returns the process exit code for an error returned by the command.
func ExitCode(err error) int {
	var qerr *quest.Error
	if !errors.As(err, &qerr) {
		return ExitFailure
	}

	switch qerr.Kind() {
	case quest.KindHTTP:
		return ExitHTTP
	case quest.KindTransport:
		return ExitConnect
	case quest.KindRedirect:
		if qerr.TransportCode() == quest.TransportTooManyRedirects {
			return ExitTooManyRedirects
		}
	}

	return ExitFailure
}

type flags struct {
	headers      []string
	data         string
	jsonBody     bool
	sock         string
	jsonOut      bool
	include      bool
	maxRedirects int
}

// NewCommand creates the root command.
func NewCommand(streams Streams) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "quest [flags] [METHOD] URL",
		Short: "Issue an HTTP request and print the response",
		Long: `Issue an HTTP request and print the response body.

Responses with a 4xx or 5xx status, transport failures and redirect loops
fail with a non-zero exit code. Configuration is read from QUEST_* environment
variables, flags take precedence.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ParseConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("sock") {
				cfg.Socket = f.sock
			}
			if cmd.Flags().Changed("max-redirects") {
				cfg.MaxRedirects = f.maxRedirects
			}

			return run(cmd.Context(), cfg, streams, f, args)
		},
	}

	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	fs := cmd.Flags()
	fs.StringArrayVarP(&f.headers, "header", "H", nil, `request header as "Name: value", may be repeated`)
	fs.StringVarP(&f.data, "data", "d", "", `request body, "@-" reads it from stdin`)
	fs.BoolVar(&f.jsonBody, "json-body", false, "send the body as JSON")
	fs.StringVar(&f.sock, "sock", "", "send the request over this unix socket")
	fs.BoolVar(&f.jsonOut, "json", false, "parse the response as JSON and pretty-print it")
	fs.BoolVarP(&f.include, "include", "i", false, "print the status and headers before the body")
	fs.IntVar(&f.maxRedirects, "max-redirects", quest.DefaultMaxRedirects, "redirects to follow, negative for no limit")

	return cmd
}

func run(ctx context.Context, cfg Config, streams Streams, f flags, args []string) (err error) {
	app := NewApp(cfg, streams)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "failed to assemble application")
	}

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start")
	}
	defer func() {
		err = errors.CombineErrors(err, app.Stop(context.WithoutCancel(ctx)))
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	method, target := http.MethodGet, args[len(args)-1]
	if len(args) == 2 {
		method = strings.ToUpper(args[0])
	} else if f.data != "" {
		method = http.MethodPost
	}

	header, err := parseHeaders(f.headers)
	if err != nil {
		return err
	}

	req, err := app.Client.NewRequest(method, target, header)
	if err != nil {
		return err
	}

	if err := sendData(req, streams.In, f); err != nil {
		return err
	}

	app.Logger.Debug("sending request",
		zap.String("method", req.Method()),
		zap.Stringer("url", req.URL()))

	s := req.Stream(ctx)
	defer s.Close()

	if err := s.Wait(ctx); err != nil {
		return err
	}

	if f.include {
		writeHead(streams.Out, s.Response())
	}

	if f.jsonOut {
		return writeJSON(streams.Out, s)
	}

	_, err = io.Copy(streams.Out, s)
	return err
}

// parseHeaders turns "Name: value" flags into request headers. Repeated names are kept as multiple values.
func parseHeaders(raw []string) (quest.Header, error) {
	values := map[string][]string{}
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, errors.Wrapf(quest.ErrInvalidHeader, "%q is not of the form \"Name: value\"", h)
		}

		name = http.CanonicalHeaderKey(strings.TrimSpace(name))
		values[name] = append(values[name], strings.TrimSpace(value))
	}

	return lo.MapValues(values, func(v []string, _ string) any {
		if len(v) == 1 {
			return v[0]
		}
		return v
	}), nil
}

func sendData(req *quest.Request, stdin io.Reader, f flags) error {
	if f.data == "" {
		return nil
	}

	data := []byte(f.data)
	if f.data == "@-" {
		var err error
		if data, err = io.ReadAll(stdin); err != nil {
			return errors.Wrap(err, "failed to read body from stdin")
		}
	}

	if !f.jsonBody {
		return req.Send(data)
	}

	if !gjson.ValidBytes(data) {
		return errors.Wrap(quest.ErrUnsupportedBody, "body is not valid JSON")
	}

	return req.Send(json.RawMessage(data))
}

func writeHead(w io.Writer, res *quest.Response) {
	fmt.Fprintf(w, "%d %s\n", res.StatusCode, http.StatusText(res.StatusCode))

	headers := res.Headers()
	names := lo.Keys(headers)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, headers[name])
	}

	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, s *quest.Stream) error {
	body, err := quest.Drain(s)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if !gjson.ValidBytes(body) {
		_, err := quest.ParseJSON(bytes.NewReader(body))
		return err
	}

	_, err = w.Write(pretty.Pretty(body))
	return err
}
