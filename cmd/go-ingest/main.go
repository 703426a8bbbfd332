package main

import (
	"context"
	"os"

	"go-ingest/pkg/log"
)

func main() {
	defer log.Sync()
	if err := getRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
