package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"blogdesk/app/logging"
	"blogdesk/config"
	"blogdesk/service"
)

const CliVersion = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run dispatches a command line and returns the process exit code.
func run(args []string, in io.Reader, out io.Writer) int {
	if len(args) < 1 {
		printHelp(out)
		return 1
	}

	switch cmd := strings.ToLower(args[0]); cmd {
	case "help":
		printHelp(out)
		return 0
	case "version":
		fmt.Fprintf(out, "blogdesk version %s\n", CliVersion)
		return 0
	case "serve", "db":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return 1
		}
		log := logging.New(cfg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cmd == "db" {
			c := &service.Command{Config: cfg, Log: log, In: in, Out: out}
			return c.HandleCommand(ctx, args[1:])
		}
		if err := service.RunAppServer(ctx, cfg, log); err != nil {
			log.WithError(err).Error("server stopped")
			return 1
		}
		return 0
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", args[0])
		printHelp(out)
		return 1
	}
}

func printHelp(out io.Writer) {
	helpText := `Usage: blogdesk <command> [options]
Commands:
  help                 Display this help message.
  version              Show version information.
  serve                Run the blog web application (configured through the environment or .env).
  db <command>         Manage the database: migrate, init, clean, backup, restore <file>.

Environment:
  STORE_DRIVER=sqlite3|postgres|badger  DATABASE_URL  BADGER_PATH  BACKUP_DIR
  HTTP_ADDR  SECRET_KEY  COOKIE_SECURE  LOG_LEVEL  APP_ENV  SHUTDOWN_TIMEOUT
`
	fmt.Fprintln(out, helpText)
}
