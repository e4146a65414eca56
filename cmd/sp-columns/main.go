// Package main implements sp-columns, which turns a record type from a YAML
// schema catalog into SharePoint list columns.
//
// Without -list it prints the column-creation payloads as JSON. With -list
// it submits them, in order, to that list of the site configured through
// SHAREPOINT_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nucleus/ucl-sharepoint/internal/columns"
	"github.com/nucleus/ucl-sharepoint/internal/config"
	"github.com/nucleus/ucl-sharepoint/internal/fields"
	"github.com/nucleus/ucl-sharepoint/internal/schema"
	"github.com/nucleus/ucl-sharepoint/internal/sharepoint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "sp-columns:", err)
		os.Exit(1)
	}
}

type options struct {
	schemaPath  string
	typeName    string
	listTitle   string
	createList  bool
	description string
	library     bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("sp-columns", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.schemaPath, "schema", "", "YAML schema catalog (required)")
	fs.StringVar(&opts.typeName, "type", "", "record type to project (default: the only type in the catalog)")
	fs.StringVar(&opts.listTitle, "list", "", "provision the columns on this list instead of printing them")
	fs.BoolVar(&opts.createList, "create", false, "create the list first")
	fs.StringVar(&opts.description, "description", "", "description of a created list")
	fs.BoolVar(&opts.library, "library", false, "create a document library instead of a generic list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.schemaPath == "" {
		fs.Usage()
		return errors.New("-schema is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}

	root, err := loadType(opts.schemaPath, opts.typeName)
	if err != nil {
		return err
	}
	descriptors, err := columns.SchemaToColumns(root)
	if err != nil {
		return err
	}
	logger.Debug("schema projected", "type", root.Name(), "columns", len(descriptors))

	if opts.listTitle == "" {
		return printPayloads(stdout, descriptors)
	}
	return provision(ctx, cfg, logger, opts, descriptors)
}

func loadType(path, name string) (schema.Type, error) {
	catalog, err := schema.LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		names := catalog.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("-type is required: catalog declares %d types", len(names))
		}
		name = names[0]
	}
	return catalog.Type(name)
}

func printPayloads(w io.Writer, descriptors []fields.Descriptor) error {
	payloads := make([]map[string]any, len(descriptors))
	for i, d := range descriptors {
		payloads[i] = d.Payload()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payloads)
}

func provision(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts options, descriptors []fields.Descriptor) error {
	client, err := sharepoint.New(cfg.SharePoint(), cfg.ClientOptions(logger))
	if err != nil {
		return err
	}

	var list *sharepoint.List
	if opts.createList {
		list, err = client.CreateList(ctx, opts.listTitle, sharepoint.ListOptions{
			Description:     opts.description,
			DocumentLibrary: opts.library,
		})
	} else {
		list, err = client.GetList(ctx, opts.listTitle)
	}
	if err != nil {
		return err
	}

	created, err := list.ProvisionColumns(ctx, descriptors)
	logger.Info("provisioning finished", "list", list.Title, "created", len(created), "total", len(descriptors))
	return err
}
