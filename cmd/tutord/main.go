package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/skanderbz/tutord/internal/cli"
)

func main() {
	// Optional; API keys usually live in .env during development.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("tutord: " + err.Error() + "\n")
		os.Exit(1)
	}
}
