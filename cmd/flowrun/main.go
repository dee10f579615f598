// Command flowrun runs a YAML pipeline once as a flow.
//
//	flowrun --pipeline pipelines/nightly.yaml [--config config.yml] [--cron "0 3 * * *"] [--max-parallel 4]
//
// Every node of the pipeline (and of its includes) declares a command to
// execute. The exit status is 0 when all tasks completed, 1 when setup or
// the run failed or the run was interrupted, and 2 for usage or
// configuration errors.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
