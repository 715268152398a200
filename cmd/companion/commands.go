package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/limbo/companion/internal/controller"
	errorvalues "github.com/limbo/companion/internal/error_values"
	"github.com/limbo/companion/pkg/config"
	"github.com/limbo/companion/pkg/entity"
	"github.com/spf13/cobra"
)

var errNoCompanion = errors.New("no companion yet, run `companion onboard --user NAME --pet NAME`")

func newRootCmd() *cobra.Command {
	var envPath string
	root := &cobra.Command{
		Use:           "companion",
		Short:         "Mindful Companion - care for your pet rock",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envPath, "env", config.DefaultEnvPath, "path to .env file")

	// withApp opens storage, runs fn and always flushes the last save.
	withApp := func(fn func(ctx context.Context, a *app, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), envPath)
			if err != nil {
				return err
			}
			defer a.close()
			return fn(cmd.Context(), a, cmd.OutOrStdout(), args)
		}
	}

	root.AddCommand(
		newStatusCmd(withApp),
		newOnboardCmd(withApp),
		newPetCmd(withApp),
		newTaskCmd(withApp),
		newTasksCmd(),
		newRenameCmd(withApp),
		newCheckInCmd(withApp),
		newHistoryCmd(withApp),
		newStreakCmd(withApp),
		newResetCmd(withApp),
	)
	return root
}

type appRunner func(fn func(ctx context.Context, a *app, out io.Writer, args []string) error) func(*cobra.Command, []string) error

func newStatusCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your pet rock",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			return printStatus(ctx, a, out)
		}),
	}
}

func newOnboardCmd(withApp appRunner) *cobra.Command {
	var userName, petName string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Introduce yourself and name your pet rock",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if a.ctrl.State().Phase == controller.PhaseActive {
				return errors.New("already onboarded, use `companion reset --yes` to start over")
			}
			if err := a.ctrl.CompleteOnboarding(userName, petName); err != nil {
				return err
			}
			state := a.ctrl.State()
			fmt.Fprintf(out, "Hi %s! Meet %s 🪨\n", state.UserName, state.PetName)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userName, "user", "", "your name")
	cmd.Flags().StringVar(&petName, "pet", "", "pet rock name")
	return cmd
}

func newPetCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "pet",
		Short: "Pet the rock (+10 bond, +5 XP)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if err := activeErr(a.ctrl.PetRock()); err != nil {
				return err
			}
			state := a.ctrl.State()
			fmt.Fprintf(out, "%s %s wiggles happily. Bond %d/100, XP %d\n", state.Face, state.PetName, state.Bond, state.XP)
			return nil
		}),
	}
}

func newTaskCmd(withApp appRunner) *cobra.Command {
	var xp int
	cmd := &cobra.Command{
		Use:   "task [id]",
		Short: "Complete a self-care task",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, args []string) error {
			switch {
			case len(args) == 1:
				task, err := a.ctrl.CompleteNamedTask(ctx, args[0])
				if err = activeErr(err); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ %s (+%d XP)\n", task.Title, task.XP)
			case xp != 0:
				if err := activeErr(a.ctrl.CompleteTask(xp)); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Task done (+%d XP)\n", xp)
			default:
				return errors.New("give a task id or --xp")
			}
			state := a.ctrl.State()
			fmt.Fprintf(out, "XP %d, level %d, bond %d/100\n", state.XP, state.Level, state.Bond)
			return nil
		}),
	}
	cmd.Flags().IntVar(&xp, "xp", 0, "xp for a custom task")
	return cmd
}

func newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List self-care tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range entity.Tasks() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-11s %-20s %2d XP\n", t.ID, t.Title, t.XP)
			}
			return nil
		},
	}
}

func newRenameCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename your pet rock",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, args []string) error {
			if err := activeErr(a.ctrl.RenamePet(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(out, "Your pet rock is now called %s\n", a.ctrl.State().PetName)
			return nil
		}),
	}
}

func newCheckInCmd(withApp appRunner) *cobra.Command {
	moods := make([]string, 0, len(entity.Moods()))
	for _, m := range entity.Moods() {
		moods = append(moods, string(m))
	}
	return &cobra.Command{
		Use:       "checkin <mood>",
		Short:     "Record how you feel today",
		Long:      "Record today's mood, one of: " + strings.Join(moods, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: moods,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, args []string) error {
			if err := activeErr(a.ctrl.CheckIn(ctx, entity.Mood(strings.ToLower(args[0])))); err != nil {
				return err
			}
			fmt.Fprintf(out, "Checked in feeling %s\n", strings.ToLower(args[0]))
			return nil
		}),
	}
}

func newHistoryCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the last 30 days",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			entries := a.ctrl.History(ctx)
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries yet")
				return nil
			}
			for _, e := range entries {
				mood := string(e.Mood)
				if mood == "" {
					mood = "-"
				}
				fmt.Fprintf(out, "%s  %-8s %3d XP  %s\n", e.Date, mood, e.XPEarned, strings.Join(e.TasksCompleted, ","))
			}
			return nil
		}),
	}
}

func newStreakCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show consecutive days ending today",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			fmt.Fprintln(out, strconv.Itoa(a.ctrl.Streak(ctx)))
			return nil
		}),
	}
}

func newResetCmd(withApp appRunner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all data",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if !yes {
				return errors.New("this deletes all progress, pass --yes to confirm")
			}
			if err := a.ctrl.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "All data cleared")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}

func printStatus(ctx context.Context, a *app, out io.Writer) error {
	state := a.ctrl.State()
	if state.Phase != controller.PhaseActive {
		return errNoCompanion
	}
	fmt.Fprintln(out, "Mindful Companion")
	fmt.Fprintf(out, "%s & %s %s\n", state.UserName, state.PetName, state.Face)
	fmt.Fprintf(out, "XP: %d  Level: %d  Bond: %d/100\n", state.XP, state.Level, state.Bond)
	fmt.Fprintf(out, "Streak: %d\n", a.ctrl.Streak(ctx))
	return nil
}

func activeErr(err error) error {
	if errors.Is(err, errorvalues.ErrNotActive) {
		return errNoCompanion
	}
	return err
}
