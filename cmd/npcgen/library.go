package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type librarySummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Archetype string `json:"archetype"`
	Tier      string `json:"tier"`
	CR        int    `json:"cr"`
}

func newLibraryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage saved NPCs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra runs only the nearest PersistentPreRunE; chain to the root's.
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			return a.openLibrary(cmd.Context())
		},
	}
	cmd.AddCommand(
		newLibraryListCmd(a),
		newLibraryShowCmd(a),
		newLibraryDeleteCmd(a),
		newLibraryNotesCmd(a),
		newLibraryClearCmd(a),
	)
	return cmd
}

func newLibraryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved NPCs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			recs, err := a.library.List(ctx)
			if err != nil {
				return err
			}
			rows := make([]librarySummary, 0, len(recs))
			for _, n := range recs {
				rows = append(rows, librarySummary{
					ID:        n.ID,
					Name:      n.Name,
					Archetype: n.ArchetypeLabel,
					Tier:      n.Tier.String(),
					CR:        n.ChallengeRating,
				})
			}
			if a.asJSON {
				return a.printJSON(rows)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tARCHETYPE\tTIER\tCR")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Name, r.Archetype, r.Tier, r.CR)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%d/%d saved\n", len(rows), a.library.Capacity())
			return err
		},
	}
}

func newLibraryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved NPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.library.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printNPC(n)
		},
	}
}

func newLibraryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved NPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.library.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "deleted %s\n", args[0])
			return err
		},
	}
}

func newLibraryNotesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id> <text>",
		Short: "Replace a saved NPC's notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.library.UpdateNotes(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return a.printNPC(n)
		},
	}
}

func newLibraryClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved NPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the library without --yes")
			}
			if err := a.library.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "library cleared")
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the library")
	return cmd
}
