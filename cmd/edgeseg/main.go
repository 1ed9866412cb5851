package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/maax3v3/edgeseg/internal/cli"
	"github.com/maax3v3/edgeseg/internal/pipeline"
)

func main() {
	cfg, err := cli.Parse(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, cli.ErrVersion):
		fmt.Printf("edgeseg %s\n", cli.Version)
		return
	case errors.Is(err, flag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	_, err = pipeline.Run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
