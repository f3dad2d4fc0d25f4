// Command invoicectl administers accounts and sequences directly against the
// configured store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/smartinvoice/smartinvoice/internal/config"
	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/sequence"
	"github.com/smartinvoice/smartinvoice/internal/service"
	"github.com/smartinvoice/smartinvoice/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	if err := newApp(os.Stdout).RunContext(context.Background(), os.Args); err != nil {
		slog.Error("invoicectl failed", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "invoicectl",
		Usage:  "manage smartinvoice accounts and document numbering",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "driver",
				Usage:   "store driver: sqlite or postgres",
				Value:   "sqlite",
				EnvVars: []string{"STORE_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "sqlite-path",
				Usage:   "SQLite database file",
				Value:   "./data/smartinvoice.db",
				EnvVars: []string{"SQLITE_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "user",
				Usage: "manage accounts",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "register an account",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Required: true},
							&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"INVOICECTL_PASSWORD"}},
							&cli.StringFlag{Name: "name"},
							&cli.StringFlag{Name: "company"},
						},
						Action: createUser,
					},
				},
			},
			{
				Name:  "token",
				Usage: "issue a bearer token for an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"INVOICECTL_PASSWORD"}},
					&cli.StringFlag{Name: "jwt-secret", Required: true, EnvVars: []string{"JWT_SECRET"}},
					&cli.DurationFlag{Name: "ttl", Value: 0, EnvVars: []string{"TOKEN_TTL"}},
				},
				Action: issueToken,
			},
			{
				Name:  "next-id",
				Usage: "show the identifier the next invoice or quote of an account would get",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "type", Value: string(domain.DocumentTypeInvoice), Usage: "invoice or quote"},
				},
				Action: nextIdentifier,
			},
		},
	}
}

func openStore(c *cli.Context) (repository.Store, error) {
	cfg := &config.Config{
		StoreDriver: c.String("driver"),
		DatabaseURL: c.String("database-url"),
		SQLitePath:  c.String("sqlite-path"),
	}
	if cfg.StoreDriver == "memory" {
		return nil, fmt.Errorf("the memory store does not persist between invocations")
	}
	return repository.Open(c.Context, cfg.StoreDriver, cfg.StoreDSN())
}

func createUser(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	auth := service.NewAuthService(store, "", 0)
	user, err := auth.Register(c.Context, &domain.RegisterRequest{
		Email:    c.String("email"),
		Password: c.String("password"),
		Name:     c.String("name"),
		Company:  c.String("company"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "created user %s (%s)\n", user.Email, user.ID)
	return nil
}

func issueToken(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	auth := service.NewAuthService(store, c.String("jwt-secret"), c.Duration("ttl"))
	token, err := auth.Login(c.Context, &domain.TokenRequest{
		Email:    c.String("email"),
		Password: c.String("password"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, token.AccessToken)
	return nil
}

func nextIdentifier(c *cli.Context) error {
	docType := domain.DocumentType(c.String("type"))
	if !docType.Numbered() {
		return fmt.Errorf("type must be invoice or quote, got %q", docType)
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := store.FindUserByEmail(c.Context, c.String("email"))
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", c.String("email"), err)
	}

	next, err := sequence.NewGenerator(store).NextIdentifier(c.Context, user.ID.String(), docType)
	if err != nil {
		return err
	}
	if next.Fallback {
		fmt.Fprintln(c.App.ErrWriter, "warning: sequence lookup failed, identifier may already be taken")
	}

	fmt.Fprintln(c.App.Writer, next.Identifier)
	return nil
}
