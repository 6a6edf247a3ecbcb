// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/db"
	"github.com/danielhkuo/quickly-rank/election"
	"github.com/danielhkuo/quickly-rank/store"
)

const usage = `usage: rankctl [-d url] [-t type] [-env-file path] [-admin-salt salt] <command>

commands:
  voters show [-all]        list voters waiting for approval (or all)
  voters approve <id>...    approve voters
  voters reject <id>...     delete voters and their ballots
  items show [-all]         list undecided items (or all)
  items decide <id>...      mark items as decided
  items delete <id>...      delete items and their votes
  results                   run the election
  admin-key                 print the admin key for the configured salt
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("rankctl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, rest, err := cliparse.ParseCtlFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}

	if rest[0] == "admin-key" {
		return printAdminKey(out, cfg)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		return err
	}

	c := &ctl{
		store: store.New(conn, nil),
		out:   out,
	}
	c.engine = election.New(c.store, nil)

	switch rest[0] {
	case "voters":
		return c.voters(ctx, rest[1:])
	case "items":
		return c.items(ctx, rest[1:])
	case "results":
		return c.results(ctx)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
}

type ctl struct {
	store  *store.Store
	engine *election.Engine
	out    io.Writer
}

func (c *ctl) voters(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "show":
		all, err := parseShowFlags(args[1:])
		if err != nil {
			return err
		}
		return c.showVoters(ctx, all)
	case "approve":
		return eachID(args[1:], func(id int64) error {
			if err := c.store.ApproveVoter(ctx, id); err != nil {
				return fmt.Errorf("voter %d: %w", id, err)
			}
			fmt.Fprintf(c.out, "approved voter %d\n", id)
			return nil
		})
	case "reject":
		return eachID(args[1:], func(id int64) error {
			if err := c.store.DeleteVoter(ctx, id); err != nil {
				return fmt.Errorf("voter %d: %w", id, err)
			}
			fmt.Fprintf(c.out, "rejected voter %d\n", id)
			return nil
		})
	}
	return fmt.Errorf("%w: unknown voters command %q", errUsage, args[0])
}

func (c *ctl) items(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "show":
		all, err := parseShowFlags(args[1:])
		if err != nil {
			return err
		}
		return c.showItems(ctx, all)
	case "decide":
		return eachID(args[1:], func(id int64) error {
			if err := c.store.DecideItem(ctx, id, timeNow()); err != nil {
				return fmt.Errorf("item %d: %w", id, err)
			}
			fmt.Fprintf(c.out, "decided item %d\n", id)
			return nil
		})
	case "delete":
		return eachID(args[1:], func(id int64) error {
			if err := c.store.DeleteItem(ctx, id); err != nil {
				return fmt.Errorf("item %d: %w", id, err)
			}
			fmt.Fprintf(c.out, "deleted item %d\n", id)
			return nil
		})
	}
	return fmt.Errorf("%w: unknown items command %q", errUsage, args[0])
}

// eachID parses every argument as an id before running fn on any of them
func eachID(args []string, fn func(id int64) error) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one id required", errUsage)
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: invalid id %q", errUsage, arg)
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}
