// Command admin is the Rangelog operator CLI.
//
// Usage:
//
//	rangelog-admin init-db
//	rangelog-admin create-user --username alice --password secret
//	rangelog-admin export --username alice > bag.json
//	rangelog-admin import --username alice --file bag.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/openfairway/rangelog/internal/config"
	"github.com/openfairway/rangelog/internal/db"
	"github.com/openfairway/rangelog/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "rangelog-admin",
		Short: "Rangelog operator CLI",
	}

	root.AddCommand(initDBCmd())
	root.AddCommand(createUserCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runWithStore opens the configured database and hands the store to fn.
func runWithStore(fn func(ctx context.Context, st *store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	sqldb, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return fn(ctx, store.New(sqldb))
}

// --------------------------------------------------------------------------
// init-db command
// --------------------------------------------------------------------------

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Open applies the schema as a side effect.
			return runWithStore(func(ctx context.Context, st *store.Store) error {
				logger.Info("Schema ready")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// create-user command
// --------------------------------------------------------------------------

func createUserCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}
			return runWithStore(func(ctx context.Context, st *store.Store) error {
				hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
				if err != nil {
					return err
				}
				id, err := st.CreateUser(ctx, username, string(hash))
				if err != nil {
					return err
				}
				logger.Info("User created", "user_id", id, "username", username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

// --------------------------------------------------------------------------
// export / import commands
// --------------------------------------------------------------------------

// bagExport is the portable dump format: clubs with their shots nested, so
// imports never depend on database ids.
type bagExport struct {
	Username string       `json:"username"`
	Clubs    []clubExport `json:"clubs"`
}

type clubExport struct {
	Name  string       `json:"name"`
	Loft  *float64     `json:"loft,omitempty"`
	Notes string       `json:"notes,omitempty"`
	Shots []shotExport `json:"shots"`
}

type shotExport struct {
	Date     string  `json:"date"`
	Distance float64 `json:"distance"`
	Result   string  `json:"result,omitempty"`
	Context  string  `json:"context,omitempty"`
}

func exportCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump a user's clubs and shots as JSON to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			return runWithStore(func(ctx context.Context, st *store.Store) error {
				u, err := st.GetUserByUsername(ctx, username)
				if err != nil {
					return fmt.Errorf("user %q: %w", username, err)
				}
				clubs, err := st.ListClubs(ctx, u.ID)
				if err != nil {
					return err
				}
				shots, err := st.ListShots(ctx, u.ID, "")
				if err != nil {
					return err
				}

				byClub := make(map[int64][]shotExport)
				for _, s := range shots {
					byClub[s.ClubID] = append(byClub[s.ClubID], shotExport{
						Date:     s.Date,
						Distance: s.Distance,
						Result:   s.Result,
						Context:  s.Context,
					})
				}

				out := bagExport{Username: u.Username}
				for _, c := range clubs {
					ce := clubExport{Name: c.Name, Loft: c.Loft, Notes: c.Notes, Shots: byClub[c.ID]}
					if ce.Shots == nil {
						ce.Shots = []shotExport{}
					}
					out.Clubs = append(out.Clubs, ce)
				}

				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username to export")
	return cmd
}

func importCmd() *cobra.Command {
	var username, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON dump into a user's account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || file == "" {
				return fmt.Errorf("--username and --file are required")
			}
			return runWithStore(func(ctx context.Context, st *store.Store) error {
				u, err := st.GetUserByUsername(ctx, username)
				if err != nil {
					return fmt.Errorf("user %q: %w", username, err)
				}

				raw, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				var in bagExport
				if err := json.Unmarshal(raw, &in); err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}

				var clubCount, shotCount int
				for _, ce := range in.Clubs {
					club, err := st.CreateClub(ctx, u.ID, ce.Name, ce.Loft, ce.Notes)
					if err != nil {
						return fmt.Errorf("club %q: %w", ce.Name, err)
					}
					clubCount++
					for _, se := range ce.Shots {
						if _, err := st.CreateShot(ctx, u.ID, club.ID, se.Date, se.Distance, se.Result, se.Context); err != nil {
							return fmt.Errorf("shot for %q: %w", ce.Name, err)
						}
						shotCount++
					}
				}
				logger.Info("Import finished", "clubs", clubCount, "shots", shotCount)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username to import into")
	cmd.Flags().StringVar(&file, "file", "", "JSON file produced by export")
	return cmd
}
