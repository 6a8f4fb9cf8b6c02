package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/pktdecode/internal/logging"
	"github.com/danmuck/pktdecode/internal/protocol"
	"github.com/danmuck/pktdecode/internal/protocol/eval"
	"github.com/rs/zerolog/log"
)

type options struct {
	input    string
	tree     bool
	json     bool
	maxDepth int
}

type report struct {
	VersionSum uint64 `json:"version_sum"`
	Value      uint64 `json:"value"`
	Packets    int    `json:"packets"`
	Depth      int    `json:"depth"`
	Expression string `json:"expression,omitempty"`
}

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("decodectl failed")
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	text, err := readTransmission(opts.input, stdin)
	if err != nil {
		return err
	}

	p, err := protocol.DecodeHexWithLimits(text, protocol.Limits{MaxDepth: opts.maxDepth})
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	value, err := eval.Evaluate(p)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	out := report{
		VersionSum: eval.VersionSum(p),
		Value:      value,
		Packets:    protocol.Count(p),
		Depth:      protocol.Depth(p),
	}
	if opts.tree {
		out.Expression = eval.Render(p)
	}
	log.Debug().Int("packets", out.Packets).Int("depth", out.Depth).Msg("transmission decoded")

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if _, err := fmt.Fprintf(stdout, "version_sum=%d\nvalue=%d\n", out.VersionSum, out.Value); err != nil {
		return err
	}
	if opts.tree {
		_, err = fmt.Fprintf(stdout, "expression=%s\n", out.Expression)
	}
	return err
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("decodectl", flag.ContinueOnError)
	fs.StringVar(&opts.input, "input", "-", "transmission file, or - for stdin")
	fs.BoolVar(&opts.tree, "tree", false, "print the decoded expression")
	fs.BoolVar(&opts.json, "json", false, "print results as JSON")
	fs.IntVar(&opts.maxDepth, "max-depth", protocol.DefaultLimits().MaxDepth, "maximum packet nesting, 0 for unlimited")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func readTransmission(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transmission (%s): %w", path, err)
	}
	return string(data), nil
}
