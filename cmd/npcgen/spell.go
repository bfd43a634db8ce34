package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSpellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spell <name>",
		Short: "Show a spell reference entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadContent(cmd.Context()); err != nil {
				return err
			}
			name := strings.Join(args, " ")
			s, ok := a.generator.Linker().Spell(name)
			if !ok {
				return fmt.Errorf("no spell named %q", name)
			}
			if a.asJSON {
				return a.printJSON(s)
			}
			level := "Cantrip"
			if s.Level > 0 {
				level = fmt.Sprintf("Level %d", s.Level)
			}
			_, err := fmt.Fprintf(a.out, "%s\n%s %s | %s | %s | %s\n%s\n",
				s.Name, level, strings.ToLower(s.School), s.CastingTime, s.Range, s.Duration, s.Description)
			return err
		},
	}
}
