package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typemeta/internal/analyze"
	"typemeta/internal/report"
	"typemeta/typeinfo"
)

func newTypesCmd(opts *options) *cobra.Command {
	var constructible bool

	cmd := &cobra.Command{
		Use:   "types [packages...]",
		Short: "List the types defined by packages",
		Long: `List the types defined by each package. Declarations that did not
type-check are skipped and the package is reported as partial.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, args)
			if err != nil {
				return err
			}
			defer s.close()

			if constructible {
				out := make(map[string][]string, len(s.units))
				for _, u := range s.units {
					types, err := typeinfo.ConstructibleTypes(u)
					if err != nil {
						return err
					}
					names := make([]string, 0, len(types))
					for _, t := range types {
						names = append(names, t.ID().Name)
					}
					out[u.Name()] = names
				}
				return report.Write(cmd.OutOrStdout(), out)
			}

			b := s.builder()
			reports := make([]report.UnitReport, 0, len(s.units))
			for _, u := range s.units {
				r, err := b.Unit(u)
				if err != nil {
					return err
				}
				if r.Skipped > 0 {
					s.log.Warn("partial package", zap.String("package", r.Package), zap.Int("skipped", r.Skipped))
				}
				reports = append(reports, r)
			}

			return report.Write(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().BoolVar(&constructible, "constructible", false, "only list the names of non-abstract, non-generic types")

	return cmd
}

func newMembersCmd(opts *options) *cobra.Command {
	var (
		declared bool
		depth    int
		name     string
	)

	cmd := &cobra.Command{
		Use:   "members <type>",
		Short: "Describe a type and its members",
		Long: `Describe a type: its base, interfaces and the members visible on it,
inherited ones included unless --declared is set. With --name only the
members of that name are listed, one per level of the hierarchy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()
			if declared {
				s.cfg.Report.Inherited = false
			}
			if cmd.Flags().Changed("depth") {
				s.cfg.Report.MaxDepth = depth
			}

			t, err := s.analyzer.Resolve(args[0])
			if err != nil {
				return err
			}

			b := s.builder()
			if name == "" {
				return report.Write(cmd.OutOrStdout(), b.Type(t))
			}

			members, err := typeinfo.DeclaredMembersByName(t, name)
			if err != nil {
				return err
			}
			out := make([]report.MemberReport, 0, len(members))
			for _, m := range members {
				out = append(out, b.Member(t, m))
			}

			return report.Write(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&declared, "declared", false, "only list members declared on the type itself")
	cmd.Flags().IntVar(&depth, "depth", 0, "expand member paths up to this depth (default from config)")
	cmd.Flags().StringVar(&name, "name", "", "list the members with this name at every level")

	return cmd
}

func newElementCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "element <type>",
		Short: "Print the element type of a sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			t, err := s.analyzer.Resolve(args[0])
			if err != nil {
				return err
			}

			elem, err := typeinfo.GetSequenceElementType(t)
			if errors.Is(err, typeinfo.ErrNoSequenceElementType) {
				return fmt.Errorf("%s is not a sequence of a single element type: %w", args[0], err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), analyze.NewTypeStringer().TypeString(elem))
			return nil
		},
	}
}

func newDefaultCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "default <type>",
		Short: "Print the default value of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			t, err := s.analyzer.Resolve(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.FormatDefault(typeinfo.DefaultValueOf(t)))
			return nil
		},
	}
}
