package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"tutormatch/backend/internal/config"
	"tutormatch/backend/internal/database"
	"tutormatch/backend/internal/logger"
	"tutormatch/backend/internal/match"
	"tutormatch/backend/internal/models"
	"tutormatch/backend/internal/storage"
	"tutormatch/backend/internal/user"

	"go.uber.org/zap"
)

const usage = `Usage: admin <command> [args]

Commands:
  migrate                   create or update the tables
  verify-user <user_id>     mark a user as verified
  matches <user_id>         list a user's matches
  close-match <match_id>    end a pending or active match (releases both users)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("TUTORMATCH_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// NewDB runs the migrations on connect
	db, err := database.NewDB(&cfg.Database, zl)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	a := &admin{
		users:   user.NewService(store, nil, cfg.Auth.BcryptCost, zl),
		matches: match.NewService(store, zl),
		out:     os.Stdout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		zl.Error("admin command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		// os.Exit skips the deferred calls
		cancel()
		_ = zl.Sync()
		os.Exit(1)
	}
}

type admin struct {
	users   user.Service
	matches match.Service
	out     io.Writer
}

func (a *admin) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "migrate":
		fmt.Fprintln(a.out, "Migrations complete.")
		return nil

	case "verify-user":
		id, err := idArg(args, "verify-user <user_id>")
		if err != nil {
			return err
		}
		if err := a.users.Verify(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User %d has been verified.\n", id)
		return nil

	case "matches":
		id, err := idArg(args, "matches <user_id>")
		if err != nil {
			return err
		}
		views, err := a.matches.List(ctx, id)
		if err != nil {
			return err
		}
		printMatches(a.out, views)
		return nil

	case "close-match":
		id, err := idArg(args, "close-match <match_id>")
		if err != nil {
			return err
		}
		m, err := a.matches.ForceEnd(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Match %d is now %s.\n", m.ID, m.Status)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func idArg(args []string, form string) (uint, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("usage: admin %s", form)
	}
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q, please provide a positive integer", args[1])
	}
	return uint(id), nil
}

func printMatches(out io.Writer, views []models.MatchView) {
	if len(views) == 0 {
		fmt.Fprintln(out, "No matches.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tTO\tSTATUS\tCOUNTERPART\tCREATED")
	for _, v := range views {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s (%d)\t%s\n",
			v.MatchID, v.FromUser, v.ToUser, v.Status, v.Name, v.UserID, v.CreatedAt.Format(time.DateTime))
	}
	_ = w.Flush()
}
