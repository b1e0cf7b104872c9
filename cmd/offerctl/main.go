package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/matfynd/backend/cmd/offerctl/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(commands.ExecuteContext(ctx))
}
