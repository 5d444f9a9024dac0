package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
