package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/resume-analyzer/internal/cli"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand(cli.Options{}).ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var analysisErr *services.AnalysisError
	if errors.As(err, &analysisErr) {
		fmt.Fprintln(os.Stderr, "error:", analysisErr.Message)
	} else {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}
