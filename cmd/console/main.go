// Command console is the staffing admin console. It talks to the backend the
// same way the web dashboard does: role-gated screens, filtered listings and
// validated create flows, with the session persisted between invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/config"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/forms"
	"github.com/arabhyaWorks/skvt-mngt-web3/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	store, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session storage unavailable: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, log)
	app := &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		sessions: session.NewManager(client, store, log),
		submit:   forms.NewSubmitter(log),
		out:      os.Stdout,
	}
	app.sessions.Restore()

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: console <command> [flags]

session:
  login        -email -password
  logout
  whoami

screens:
  dashboard
  departments
  department   -id
  employees    [-role -department -duty-point -shift -status -name -page]
  duty-points
  shifts
  available

create flows:
  add-department  -name [-description] (-admin-id | -admin-name -admin-email -admin-phone -admin-password)
  add-duty-point  -name -coordinate [-description] [-department]
  add-shift       -name -start -end [-department]
  add-employee    -name -phone -designation [-email -password -inactive] [-department]
  assign          -employee -duty-point -shift -start -end
  designations`)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(parsed).
		With().Timestamp().Logger()
}
