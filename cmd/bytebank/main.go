package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"bytebank/internal/config"
	"bytebank/internal/logger"
	"bytebank/internal/prompt"
	"bytebank/internal/storage"
	"bytebank/internal/tracker"

	"github.com/google/uuid"
	"golang.org/x/term"
)

const usage = `Usage: bytebank [-config FILE] [-db PATH] -user NAME [-password PW] COMMAND [flags]

Commands:
  add      [-date D] [-category C] [-description S] [-amount A]
  list
  get      -id N
  update   -id N [-date D] [-category C] [-description S] [-amount A]
  delete   -id N [-yes]
  filter   (-category C | -date D)
  summary
  chart    -by category|date
  export   [-o FILE]
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bytebank", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to a TOML config file")
	dbPath := fs.String("db", "", "Path to database file (overrides config)")
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || fs.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		if *username == "" {
			return fmt.Errorf("missing required flags: user")
		}
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, stderr).WithField(logger.FieldSession, uuid.NewString())
	p := prompt.New(stdin, stdout)

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		password, err = readPassword(stdin, p)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	db, err := storage.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	tr := tracker.New(db, log)

	user, err := tr.Login(ctx, *username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	a := &app{
		tr:     tr,
		owner:  user.Username,
		p:      p,
		out:    stdout,
		errOut: stderr,
		cfg:    cfg,
	}
	return a.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}

// readPassword reads without echo from a terminal and falls back to a plain
// line for pipes. The fallback shares p's buffer so later prompts see the
// rest of the input.
func readPassword(stdin io.Reader, p *prompt.Prompter) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	pw, err := p.Ask("")
	if errors.Is(err, prompt.ErrCancelled) {
		return "", io.EOF
	}
	return pw, err
}
