// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/election"
	"github.com/danielhkuo/quickly-rank/models"
)

// timeNow is replaced in tests
var timeNow = time.Now

func parseShowFlags(args []string) (bool, error) {
	var all bool
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&all, "all", false, "include approved voters or decided items")
	if err := fs.Parse(args); err != nil {
		return false, fmt.Errorf("%w: %v", errUsage, err)
	}
	return all, nil
}

func printAdminKey(out io.Writer, cfg cliparse.CtlConfig) error {
	if cfg.AdminKeySalt == "" {
		return fmt.Errorf("%w: ADMIN_KEY_SALT required", errUsage)
	}
	fmt.Fprintln(out, auth.GenerateAdminKey(auth.AdminScope, cfg.AdminKeySalt))
	return nil
}

func (c *ctl) showVoters(ctx context.Context, all bool) error {
	voters, err := c.store.ListVoters(ctx)
	if err != nil {
		return err
	}
	if !all {
		voters = slices.DeleteFunc(voters, func(v models.Voter) bool { return v.IsApproved })
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tSTATUS\tREGISTERED")
	for _, v := range voters {
		status := "pending"
		if v.IsApproved {
			status = "approved"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.ID, v.Username, status, humanize.RelTime(v.CreatedAt, timeNow(), "ago", "from now"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s %s\n", humanize.Comma(int64(len(voters))), plural(len(voters), "voter"))
	return nil
}

func (c *ctl) showItems(ctx context.Context, all bool) error {
	var items []models.Item
	var err error
	if all {
		items, err = c.store.ListItems(ctx)
	} else {
		items, err = c.store.ListUndecidedItems(ctx)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tADDED\tDECIDED")
	for _, item := range items {
		decided := "-"
		if item.DecidedAt != nil {
			decided = humanize.RelTime(*item.DecidedAt, timeNow(), "ago", "from now")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Title, humanize.RelTime(item.CreatedAt, timeNow(), "ago", "from now"), decided)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s %s\n", humanize.Comma(int64(len(items))), plural(len(items), "item"))
	return nil
}

func (c *ctl) results(ctx context.Context) error {
	res, err := c.engine.Resolve(ctx)
	if err != nil {
		return err
	}

	count, err := c.store.CountBallots(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %s\n", humanize.Comma(int64(count)), plural(count, "ballot"))

	for i, round := range res.Rounds {
		fmt.Fprintf(c.out, "%s round: %s", humanize.Ordinal(i+1), formatCounts(round.Counts))
		if round.Exhausted > 0 {
			fmt.Fprintf(c.out, ", %d exhausted", round.Exhausted)
		}
		if round.Eliminated != nil {
			fmt.Fprintf(c.out, ", eliminated %d", *round.Eliminated)
		}
		fmt.Fprintln(c.out)
	}

	if res.Primary.Kind == election.Tie {
		fmt.Fprintf(c.out, "tie between %v\n", res.Primary.Tied)
	}
	if err := c.printPick(ctx, "winner", res.Winner); err != nil {
		return err
	}
	return c.printPick(ctx, "second", res.Second)
}

func (c *ctl) printPick(ctx context.Context, label string, id *int64) error {
	if id == nil {
		fmt.Fprintf(c.out, "%s: none\n", label)
		return nil
	}
	item, err := c.store.GetItem(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %d %s\n", label, item.ID, item.Title)
	return nil
}

func formatCounts(counts map[int64]int) string {
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d=%d", id, counts[id]))
	}
	return strings.Join(parts, " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
