// Command solarctl evaluates a configuration request offline and prints
// the report.
//
//	solarctl -i request.json
//	cat request.json | solarctl -o json
//	solarctl --list
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/niksmo/solarcomp/internal/adapter/httphandler"
	"github.com/niksmo/solarcomp/internal/core/catalog"
	"github.com/niksmo/solarcomp/internal/core/service"
	"github.com/spf13/pflag"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var errUsage = errors.New("usage")

type options struct {
	input       string
	format      string
	catalogFile string
	list        bool
}

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	fmt.Fprintf(os.Stderr, "solarctl: %v\n", err)
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	os.Exit(1)
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := pflag.NewFlagSet("solarctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.input, "input", "i", "-", "request file, - for stdin")
	fs.StringVarP(&o.format, "output", "o", formatText, "output format: text or json")
	fs.StringVar(&o.catalogFile, "catalog", "", "catalog file, embedded catalog if empty")
	fs.BoolVar(&o.list, "list", false, "print the catalog and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.format != formatText && o.format != formatJSON {
		return options{}, fmt.Errorf("%w: unknown output format %q", errUsage, o.format)
	}
	return o, nil
}

func run(
	ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer,
) error {
	o, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	c, err := loadCatalog(o.catalogFile)
	if err != nil {
		return err
	}
	s := service.New(c, nil)

	if o.list {
		products, groups, err := s.Catalog(ctx)
		if err != nil {
			return err
		}
		if o.format == formatJSON {
			return writeJSON(stdout, httphandler.NewCatalog(products, groups))
		}
		return renderCatalog(stdout, products, groups)
	}

	req, err := readRequest(o.input, stdin)
	if err != nil {
		return err
	}

	report, err := s.Evaluate(ctx, req.ToDomain())
	if err != nil {
		return err
	}

	if o.format == formatJSON {
		return writeJSON(stdout, httphandler.NewEvaluationReport(report))
	}
	return renderReport(stdout, report)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func readRequest(path string, stdin io.Reader) (httphandler.EvaluationRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return httphandler.EvaluationRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req httphandler.EvaluationRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return httphandler.EvaluationRequest{}, fmt.Errorf("read request: %w", err)
	}
	if req.Product.Name == "" {
		return httphandler.EvaluationRequest{}, fmt.Errorf("%w: product name is required", errUsage)
	}
	return req, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
