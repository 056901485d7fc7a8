package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/acq-directory/modules/directory/presentation/mappers"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/viewmodels"
	"github.com/iota-uz/acq-directory/modules/directory/services"
)

func newHierarchyCmd(g *globalOptions) *cobra.Command {
	var (
		format string
		tree   bool
	)

	cmd := &cobra.Command{
		Use:   "hierarchy [service]",
		Short: "Print organizations grouped by service",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			h := svc.BuildHierarchy()
			resp := mappers.HierarchyToViewModel(h, tree)
			if len(args) == 1 {
				service, ok := matchService(h.Services(), args[0])
				if !ok {
					return withCode(exitValidation, fmt.Errorf("unknown service: %s", args[0]))
				}
				resp.Services = []viewmodels.ServiceHierarchy{mappers.ServiceHierarchy(h, service, tree)}
				edges := resp.BrokenEdges[:0]
				for _, e := range resp.BrokenEdges {
					if e.Service == service {
						edges = append(edges, e)
					}
				}
				resp.BrokenEdges = edges
			}
			return render(cmd.OutOrStdout(), f, resp, func(w io.Writer) error {
				writeHierarchy(w, resp)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	cmd.Flags().BoolVar(&tree, "tree", false, "Nest organizations under their parents")
	return cmd
}

func matchService(known []string, name string) (string, bool) {
	for _, s := range known {
		if strings.EqualFold(s, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return "", false
}

func writeHierarchy(w io.Writer, resp viewmodels.HierarchyResponse) {
	var walk func(o *viewmodels.Organization, depth int)
	walk = func(o *viewmodels.Organization, depth int) {
		label := o.Name
		if o.Abbreviation != "" {
			label = fmt.Sprintf("%s (%s)", label, o.Abbreviation)
		}
		fmt.Fprintf(w, "%s%s [%d]\n", strings.Repeat("  ", depth+1), label, len(o.MemberIDs))
		for _, c := range o.Children {
			walk(c, depth+1)
		}
	}
	for _, s := range resp.Services {
		fmt.Fprintln(w, s.Service)
		for _, o := range s.Organizations {
			walk(o, 0)
		}
	}
	if len(resp.BrokenEdges) > 0 {
		fmt.Fprintln(w, "\nUnresolved parents:")
		for _, e := range resp.BrokenEdges {
			fmt.Fprintf(w, "  %s: %s -> %s\n", e.Service, e.Child, e.Parent)
		}
	}
}

func newRelationshipsCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relationships",
		Short: "Inspect the relationship table",
	}
	cmd.AddCommand(newRelationshipsListCmd(g))
	cmd.AddCommand(newRelationshipsCheckCmd(g))
	return cmd
}

func newRelationshipsListCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every relationship row",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			rels := mappers.RelationshipsToViewModels(svc.Relationships())
			return render(cmd.OutOrStdout(), f, rels, func(w io.Writer) error {
				for _, r := range rels {
					fmt.Fprintf(w, "%s -[%s]-> %s\n", r.ChildEntity, r.RelationshipType, r.ParentEntity)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	return cmd
}

func newRelationshipsCheckCmd(g *globalOptions) *cobra.Command {
	var (
		format       string
		failOnIssues bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report relationships that name no known organization",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			report := svc.Snapshot().RelationshipReport
			err = render(cmd.OutOrStdout(), f, report, func(w io.Writer) error {
				fmt.Fprintf(w, "relationships: %d, matched: %d, issues: %d\n", report.Total, report.Matched, len(report.Issues))
				for _, issue := range report.Issues {
					var missing []string
					if issue.ChildMissing {
						missing = append(missing, "child")
					}
					if issue.ParentMissing {
						missing = append(missing, "parent")
					}
					fmt.Fprintf(w, "  %s -> %s (unknown %s)\n", issue.Child, issue.Parent, strings.Join(missing, ", "))
				}
				return nil
			})
			if err != nil {
				return err
			}
			if failOnIssues && len(report.Issues) > 0 {
				return withCode(exitValidation, fmt.Errorf("%d relationship(s) reference unknown organizations", len(report.Issues)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	cmd.Flags().BoolVar(&failOnIssues, "fail-on-issues", false, "Exit with code 2 when any relationship is unresolved")
	return cmd
}

func newExportCmd(g *globalOptions) *cobra.Command {
	var (
		format string
		output string
		filter criteriaFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export people as CSV or XLSX",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "csv" && format != "xlsx" {
				return withCode(exitUsage, fmt.Errorf("unsupported --format: %s", format))
			}
			if format == "xlsx" && output == "" {
				return withCode(exitUsage, errors.New("--output is required for xlsx"))
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			persons := svc.Filter(filter.criteria())

			w := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return errors.Wrap(err, "create output")
				}
				defer file.Close()
				w = file
			}
			if format == "xlsx" {
				err = services.WriteXLSX(w, persons)
			} else {
				err = services.WriteCSV(w, persons)
			}
			if err != nil {
				return err
			}
			if output != "" {
				g.logger.WithField("path", output).Infof("exported %d record(s)", len(persons))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv|xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	filter.bind(cmd)
	return cmd
}
