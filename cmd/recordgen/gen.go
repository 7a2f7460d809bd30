package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/record/cmd/recordgen/internal/watch"
	"github.com/syssam/record/compiler/gen"
	"github.com/syssam/record/compiler/load"
)

type genOptions struct {
	file  string
	out   string
	pkg   string
	watch bool
}

func newGenCmd() *cobra.Command {
	var opts genOptions
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate one Go file per declared entity",
		Example: `  recordgen gen -f entities.yaml -o ./models
  recordgen gen -f entities.yaml -o ./models --package entity --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGen(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "entities.yaml", "entities file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.pkg, "package", "", "package name of generated files (defaults to the one declared in the file)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "regenerate when the entities file changes")
	return cmd
}

func runGen(ctx context.Context, stdout, stderr io.Writer, opts genOptions) error {
	cfgOpts := []gen.Option{gen.WithTarget(opts.out)}
	if opts.pkg != "" {
		cfgOpts = append(cfgOpts, gen.WithPackage(opts.pkg))
	}
	cfg, err := gen.NewConfig(cfgOpts...)
	if err != nil {
		return err
	}
	g := gen.New(cfg)
	generate := func(ctx context.Context) error {
		manifest, err := load.Load(opts.file)
		if err != nil {
			return err
		}
		files, err := g.Generate(ctx, manifest)
		if err != nil {
			return err
		}
		printFiles(stdout, files)
		return nil
	}
	if err := generate(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	w, err := watch.New(opts.file, generate, watch.WithErrorHandler(func(err error) {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("✗"), err)
	}))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "watching %s\n", opts.file)
	return w.Run(ctx)
}

func printFiles(w io.Writer, files []gen.File) {
	for _, f := range files {
		if f.Changed {
			fmt.Fprintf(w, "%s wrote %s\n", color.GreenString("✓"), f.Path)
			continue
		}
		fmt.Fprintf(w, "%s unchanged %s\n", color.HiBlackString("·"), f.Path)
	}
}
