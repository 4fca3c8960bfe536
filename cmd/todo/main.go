package main

import (
	"flag"
	"os"

	"github.com/idilsaglam/todo-remote/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	baseURL := flag.String("base-url", "", "override the API base URL")
	debug := flag.Bool("debug", false, "write request logs to ~/.todo/todo.log")
	flag.Parse()

	// Hand the remaining args to the CLI runner. No args opens the
	// interactive list.
	code := cli.Run(flag.Args(), cli.Options{
		BaseURL: *baseURL,
		Debug:   *debug,
	})
	os.Exit(code)
}
