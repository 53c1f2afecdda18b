package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/league-service/internal/app/calendar"
	"github.com/preston-bernstein/league-service/internal/app/league"
	"github.com/preston-bernstein/league-service/internal/timeutil"
)

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "leaguectl",
		Short:        "Racing league admin CLI",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(exportCmd(open))
	root.AddCommand(importCmd(open))
	root.AddCommand(standingsCmd(open))
	root.AddCommand(constructorsCmd(open))
	root.AddCommand(inactiveCmd(open))
	root.AddCommand(recordsCmd(open))
	root.AddCommand(calendarCmd(open))
	return root
}

func exportCmd(open opener) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every player as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				w := cmd.OutOrStdout()
				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return fmt.Errorf("create %s: %w", outPath, err)
					}
					defer f.Close()
					w = f
				}
				n, err := svc.Transfer.Export(cmd.Context(), w)
				if err != nil {
					return err
				}
				if outPath != "" {
					fprintf(cmd.OutOrStdout(), "exported %d players to %s\n", n, outPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func importCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import players from CSV, replacing rows with matching ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				res, err := svc.Transfer.Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				fprintf(cmd.OutOrStdout(), "imported %d players (%d replaced, %d skipped)\n", res.Imported, res.Replaced, res.Skipped)
				return nil
			})
		},
	}
}

func standingsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Print the driver championship",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				table, err := svc.Scoring.Standings(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fprintf(tw, "POS\tDRIVER\tTEAM\tPOINTS\tRACES\n")
				for _, e := range table {
					fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", e.Position, e.DisplayName, e.Team, e.TotalPoints, e.RacesCompleted)
				}
				return tw.Flush()
			})
		},
	}
}

func constructorsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "constructors",
		Short: "Print the constructor championship",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				table, err := svc.Roster.ConstructorStandings(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fprintf(tw, "POS\tTEAM\tPOINTS\tDRIVERS\n")
				for _, c := range table {
					fprintf(tw, "%d\t%s\t%d\t%d\n", c.Position, c.Name, c.TotalPoints, len(c.Drivers))
				}
				return tw.Flush()
			})
		},
	}
}

func inactiveCmd(open opener) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "inactive",
		Short: "List players at or above the missed-race threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				list, err := svc.Attendance.InactivePlayers(cmd.Context(), threshold)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fprintf(cmd.OutOrStdout(), "no inactive players\n")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fprintf(tw, "PLAYER\tNAME\tMISSED\tLAST ACTIVE\n")
				for _, p := range list {
					fprintf(tw, "%s\t%s\t%d\t%s\n", p.PlayerID, p.DisplayName, p.MissedRaces, timeutil.FormatDate(p.LastActivity))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Missed races that count as inactive (default from config)")
	return cmd
}

func recordsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Recompute and print the hall of fame",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				hof, err := svc.HallOfFame.Recompute(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(hof)
			})
		},
	}
}

func calendarCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage the race calendar",
	}
	cmd.AddCommand(calendarAddCmd(open))
	cmd.AddCommand(calendarNextCmd(open))
	return cmd
}

func calendarAddCmd(open opener) *cobra.Command {
	var (
		round int
		name  string
		track string
		at    string
		tz    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule or reschedule a round",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", tz, err)
			}
			when, err := timeutil.ParseLeagueTime(at, loc)
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				res, err := svc.Calendar.AddRace(cmd.Context(), calendar.AddRequest{
					Round:       round,
					Name:        name,
					Track:       track,
					ScheduledAt: when,
				})
				if err != nil {
					return err
				}
				if !res.Failure.OK() {
					return fmt.Errorf("schedule round %d: %s", round, res.Failure.Message())
				}
				verb := "scheduled"
				if res.Updated {
					verb = "rescheduled"
				}
				fprintf(cmd.OutOrStdout(), "%s round %d %s at %s UTC\n", verb, res.Entry.Round, res.Entry.Name,
					timeutil.FormatLeagueTime(res.Entry.ScheduledAt, time.UTC))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&round, "round", 0, "Round number")
	cmd.Flags().StringVar(&name, "name", "", "Race name")
	cmd.Flags().StringVar(&track, "track", "", "Track")
	cmd.Flags().StringVar(&at, "at", "", "Start time as DD.MM.YYYY HH:MM")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "Timezone of --at")
	_ = cmd.MarkFlagRequired("round")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func calendarNextCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next race",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), open, func(svc *league.Services) error {
				res, err := svc.Calendar.NextRace(cmd.Context())
				if err != nil {
					return err
				}
				if !res.Failure.OK() {
					fprintf(cmd.OutOrStdout(), "no upcoming race\n")
					return nil
				}
				fprintf(cmd.OutOrStdout(), "round %d: %s (%s) at %s UTC\n", res.Entry.Round, res.Entry.Name, res.Entry.Track,
					timeutil.FormatLeagueTime(res.Entry.ScheduledAt, time.UTC))
				return nil
			})
		},
	}
}
