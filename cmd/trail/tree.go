package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/tasktrail/internal/models"
	"github.com/zulandar/tasktrail/internal/task"
	"github.com/zulandar/tasktrail/internal/tree"
)

func newTreeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tree <task-id>",
		Short: "Print a task and its subtasks",
		Long:  "Prints the subtree under a task, one line per task with its total descendant count.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to tasktrail config file")
	return cmd
}

func runTree(cmd *cobra.Command, configPath, rootID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if _, err := task.Get(gormDB, rootID); err != nil {
		return err
	}
	tasks, err := task.All(gormDB)
	if err != nil {
		return err
	}
	printTree(cmd.OutOrStdout(), rootID, tasks)
	return nil
}

// printTree writes rootID's subtree depth-first, children in creation order.
func printTree(out io.Writer, rootID string, tasks []models.Task) {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	nodes := tree.Nodes(tasks)
	children := tree.Children(nodes)
	counts := tree.DescendantCounts(nodes)

	type frame struct {
		id    string
		depth int
	}
	visited := map[string]bool{}
	stack := []frame{{id: rootID}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.id] {
			continue
		}
		visited[f.id] = true

		t := byID[f.id]
		fmt.Fprintf(out, "%s%s  %s  (%d subtasks)\n", strings.Repeat("  ", f.depth), shortID(t.ID), t.Title, counts[t.ID])

		kids := children[f.id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: kids[i], depth: f.depth + 1})
		}
	}
}
