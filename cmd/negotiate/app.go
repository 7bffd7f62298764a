package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/angeloszaimis/content-negotiation/internal/codec"
	"github.com/angeloszaimis/content-negotiation/internal/negotiation"
)

// Exit codes for negotiation failures.
const (
	exitNotAcceptable       = 2
	exitNoRendererForFormat = 3
	exitInvalidAccept       = 4
	exitUnsupportedMedia    = 5
)

type result struct {
	Renderer  string   `json:"renderer"`
	MediaType string   `json:"media_type"`
	Parser    string   `json:"parser,omitempty"`
	Accept    []string `json:"accept"`
}

// App creates the CLI application.
func App() *cli.App {
	defaults := negotiation.DefaultConfig()

	return &cli.App{
		Name:      "negotiate",
		Usage:     "Select a renderer and parser the way the negotiator server would",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "accept",
				Aliases: []string{"a"},
				Usage:   "Accept header value",
			},
			&cli.StringFlag{
				Name:    "content-type",
				Aliases: []string{"c"},
				Usage:   "Content-Type header value; enables parser selection",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "format suffix, as in /resource.json",
			},
			&cli.StringSliceFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "query parameter as key=value, repeatable",
			},
			&cli.StringSliceFlag{
				Name:  "renderer",
				Usage: "renderer formats in priority order",
				Value: cli.NewStringSlice("json", "html"),
			},
			&cli.StringSliceFlag{
				Name:  "parser",
				Usage: "parser formats in priority order",
				Value: cli.NewStringSlice("json", "form"),
			},
			&cli.StringFlag{
				Name:    "strategy",
				Usage:   "negotiation strategy: default, ignore-client",
				EnvVars: []string{"NEGOTIATOR_NEGOTIATION_STRATEGY"},
				Value:   negotiation.StrategyDefault,
			},
			&cli.StringFlag{
				Name:    "quality-policy",
				Usage:   "malformed q handling: reject, clamp",
				EnvVars: []string{"NEGOTIATOR_NEGOTIATION_QUALITY_POLICY"},
				Value:   string(defaults.QualityPolicy),
			},
			&cli.StringFlag{
				Name:  "format-param",
				Usage: "query parameter naming a format override",
				Value: defaults.FormatParam,
			},
			&cli.StringFlag{
				Name:  "accept-param",
				Usage: "query parameter replacing the Accept header",
				Value: defaults.AcceptParam,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json",
				Value:   "table",
			},
		},
		// Accept values contain commas; repeat slice flags instead.
		DisableSliceFlagSeparator: true,

		Action: run,
	}
}

func run(c *cli.Context) error {
	policy := negotiation.QualityPolicy(c.String("quality-policy"))
	if policy != negotiation.QualityReject && policy != negotiation.QualityClamp {
		return cli.Exit(fmt.Sprintf("unknown quality policy %q", policy), 1)
	}

	cfg := negotiation.Config{
		FormatParam:   c.String("format-param"),
		AcceptParam:   c.String("accept-param"),
		DefaultAccept: negotiation.DefaultConfig().DefaultAccept,
		QualityPolicy: policy,
	}

	negotiator, err := negotiation.New(c.String("strategy"), cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	registry, err := codec.NewRegistry(c.StringSlice("renderer"), c.StringSlice("parser"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	query, err := parseQuery(c.StringSlice("query"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	req := negotiation.Request{
		Accept:      c.String("accept"),
		ContentType: c.String("content-type"),
		Query:       query,
	}

	var res result

	if req.ContentType != "" {
		parser, ok := negotiator.SelectParser(req, registry.Parsers())
		if !ok {
			return cli.Exit(fmt.Sprintf("unsupported media type %q", req.ContentType), exitUnsupportedMedia)
		}
		res.Parser = parser.MediaType()
	}

	renderer, mediaType, err := negotiator.SelectRenderer(req, registry.Renderers(), c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), exitCode(err))
	}
	res.Renderer = renderer.Format()
	res.MediaType = mediaType

	res.Accept = []string{}
	if accepted, err := negotiation.AcceptList(req, cfg); err == nil {
		for _, mt := range accepted {
			res.Accept = append(res.Accept, mt.String())
		}
	}

	return printResult(c, res)
}

func printResult(c *cli.Context, res result) error {
	w := c.App.Writer

	if c.String("output") == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "renderer:   %s\n", res.Renderer)
	fmt.Fprintf(w, "media type: %s\n", res.MediaType)
	if res.Parser != "" {
		fmt.Fprintf(w, "parser:     %s\n", res.Parser)
	}
	fmt.Fprintf(w, "accept:     %s\n", strings.Join(res.Accept, ", "))
	return nil
}

func parseQuery(pairs []string) (url.Values, error) {
	query := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query %q, want key=value", pair)
		}
		query.Add(key, value)
	}
	return query, nil
}

func exitCode(err error) int {
	var notAcceptable *negotiation.NotAcceptableError

	switch {
	case errors.As(err, &notAcceptable):
		return exitNotAcceptable
	case errors.Is(err, negotiation.ErrNoRendererForFormat):
		return exitNoRendererForFormat
	case errors.Is(err, negotiation.ErrInvalidQualityValue):
		return exitInvalidAccept
	default:
		return 1
	}
}
