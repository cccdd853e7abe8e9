package main

import (
	"context"
	"fmt"
	"os"

	"github.com/anand/task-tracker/backend/internal/cli"
	"github.com/anand/task-tracker/backend/internal/client"
)

func main() {
	baseURL := os.Getenv("TASKER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	tokenPath, err := client.DefaultTokenPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot determine config dir: %v\n", err)
		os.Exit(cli.ExitError)
	}

	app := cli.NewApp(client.New(baseURL), client.NewTokenFile(tokenPath), os.Stdout, os.Stderr)
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}
