package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/docreader/internal/config"
	"github.com/dgallion1/docreader/internal/export"
	"github.com/dgallion1/docreader/internal/ingest"
	"github.com/dgallion1/docreader/internal/session"
)

// convert runs one file through the ingestion converters and writes the
// result the same way the reader exports a document.
func convert(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("convert takes exactly one file")
	}
	path := cmd.Args().First()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	src, err := ingest.FileSource(name, data, cfg.ConverterOptions())
	if err != nil {
		return err
	}
	markup, err := src.Read(ctx)
	if err != nil {
		return err
	}

	out, err := export.Snapshot(session.Document{Name: name, Content: markup})
	if err != nil {
		return err
	}

	dest := cmd.String("output")
	if dest == "" {
		dest = filepath.Join(filepath.Dir(path), out.Filename)
	}
	if dest == path {
		return fmt.Errorf("refusing to overwrite input %s", path)
	}
	if err := os.WriteFile(dest, out.Body, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", dest, len(out.Body))
	return nil
}
