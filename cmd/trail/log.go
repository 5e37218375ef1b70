package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/tasktrail/internal/activity"
	"github.com/zulandar/tasktrail/internal/history"
	"github.com/zulandar/tasktrail/internal/models"
)

type logOpts struct {
	configPath string
	subtasks   bool
	page       int
	limit      int
	since      string
	until      string
}

func newLogCmd() *cobra.Command {
	var opts logOpts

	cmd := &cobra.Command{
		Use:   "log <task-id>",
		Short: "Show the activity log of a task",
		Long:  "Prints one page of a task's activity, newest first. With --subtasks the page covers the whole subtree.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to tasktrail config file")
	cmd.Flags().BoolVar(&opts.subtasks, "subtasks", false, "include entries of every descendant task")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&opts.limit, "limit", history.DefaultLimit, "entries per page (max 100)")
	cmd.Flags().StringVar(&opts.since, "since", "", "only entries at or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.until, "until", "", "only entries at or before this date (YYYY-MM-DD or RFC 3339)")
	return cmd
}

func runLog(cmd *cobra.Command, taskID string, opts logOpts) error {
	if opts.page < 1 {
		return fmt.Errorf("--page must be >= 1")
	}
	if opts.limit < 1 || opts.limit > history.MaxLimit {
		return fmt.Errorf("--limit must be between 1 and %d", history.MaxLimit)
	}
	var dr activity.DateRange
	var err error
	if opts.since != "" {
		if dr.Start, err = parseFlagDate(opts.since, false); err != nil {
			return fmt.Errorf("--since: %w", err)
		}
	}
	if opts.until != "" {
		if dr.End, err = parseFlagDate(opts.until, true); err != nil {
			return fmt.Errorf("--until: %w", err)
		}
	}

	_, gormDB, err := connectFromConfig(opts.configPath)
	if err != nil {
		return err
	}

	res, err := history.NewService(gormDB).List(context.Background(), history.Query{
		TaskID:          taskID,
		Page:            opts.page,
		Limit:           opts.limit,
		IncludeSubtasks: opts.subtasks,
		Range:           dr,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Items) == 0 {
		fmt.Fprintln(out, "No activity found.")
		return nil
	}
	printEntries(out, res.Items, opts.subtasks)
	fmt.Fprintf(out, "\nPage %d of %d (%d entries)\n", res.Page, res.TotalPages, res.Total)
	return nil
}

func printEntries(out io.Writer, entries []models.ActivityLog, showTask bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if showTask {
		fmt.Fprintln(w, "TIME\tTASK\tUSER\tACTION\tFIELD\tOLD\tNEW")
	} else {
		fmt.Fprintln(w, "TIME\tUSER\tACTION\tFIELD\tOLD\tNEW")
	}
	for _, e := range entries {
		ts := e.CreatedAt.UTC().Format(time.RFC3339)
		cols := []any{ts, shortID(e.UserID), e.Action, orDash(e.Field), truncate(orDash(e.OldValue), 40), truncate(orDash(e.NewValue), 40)}
		if showTask {
			cols = append([]any{ts, shortID(e.TaskID)}, cols[1:]...)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", cols...)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", cols...)
	}
	w.Flush()
}
