package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/acq-directory/modules/directory/domain/aggregates/person"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/mappers"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/viewmodels"
	"github.com/iota-uz/acq-directory/modules/directory/services"
)

type criteriaFlags struct {
	services      []string
	positionTypes []string
	statuses      []string
	missionAreas  []string
	locations     []string
}

func (f *criteriaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.services, "service", nil, "Service/agency to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.positionTypes, "position-type", nil, "Position type to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "Status to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.missionAreas, "mission-area", nil, "Mission area to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.locations, "location", nil, "Location to include (repeatable)")
}

func (f *criteriaFlags) criteria() services.Criteria {
	return services.Criteria{
		Services:      f.services,
		PositionTypes: f.positionTypes,
		Statuses:      f.statuses,
		MissionAreas:  f.missionAreas,
		Locations:     f.locations,
	}
}

func writePersonLine(w io.Writer, p viewmodels.Person) {
	org := p.OrganizationName
	if p.OrganizationAbbreviation != "" {
		org = fmt.Sprintf("%s (%s)", org, p.OrganizationAbbreviation)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Position, p.ServiceAgency, org, p.Status)
}

func newStatsCmd(g *globalOptions) *cobra.Command {
	var format string
	var filter criteriaFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the data quality report",
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
			snap := svc.Snapshot()
			persons := services.Filter(snap.Persons, filter.criteria())
			report := services.NewQualityReport(persons, len(snap.Relationships))
			return render(cmd.OutOrStdout(), f, report, func(w io.Writer) error {
				return services.RenderQualityReport(w, report)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	filter.bind(cmd)
	return cmd
}

func newSearchCmd(g *globalOptions) *cobra.Command {
	var (
		format      string
		limit       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search people by name, position and organization",
		Long: "Fuzzy search people by name, position and organization.\n\n" +
			"With --interactive every stdin line replaces the current query. Only the\n" +
			"query still current after the debounce window is evaluated and printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			if limit < 0 {
				return withCode(exitUsage, errors.New("--limit must be non-negative"))
			}
			if !interactive && len(args) == 0 {
				return withCode(exitUsage, errors.New("search requires a query or --interactive"))
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !interactive {
				query := strings.Join(args, " ")
				return writeSearch(out, f, query, svc.Search(query), limit)
			}

			var delivered atomic.Uint64
			settled := make(chan struct{}, 1)
			session := services.NewSearchSession(svc, services.SearchSessionOptions{
				Delay: g.debounce,
				OnResult: func(u services.SearchUpdate) {
					if err := writeSearch(out, f, u.Query, u.Results, limit); err != nil {
						g.logger.WithError(err).Error("write search results")
					}
					delivered.Store(u.Generation)
					select {
					case settled <- struct{}{}:
					default:
					}
				},
			})
			defer session.Close()

			var sent uint64
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				session.SetQuery(scanner.Text())
				sent++
			}
			if err := scanner.Err(); err != nil {
				return errors.Wrap(err, "read queries")
			}
			for sent > 0 && delivered.Load() < sent {
				select {
				case <-settled:
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results to print (0 = all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read queries line by line from stdin")
	return cmd
}

func writeSearch(w io.Writer, format, query string, results []services.SearchResult, limit int) error {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	resp := mappers.SearchResultsToViewModel(query, results)
	return render(w, format, resp, func(w io.Writer) error {
		fmt.Fprintf(w, "query %q: %d result(s)\n", resp.Query, len(resp.Results))
		for _, r := range resp.Results {
			fmt.Fprintf(w, "%.3f\t", r.Score)
			writePersonLine(w, r.Person)
		}
		return nil
	})
}

func newFilterCmd(g *globalOptions) *cobra.Command {
	var (
		format string
		filter criteriaFlags
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List people matching every given criterion",
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
			persons := mappers.PersonsToViewModels(svc.Filter(filter.criteria()))
			return render(cmd.OutOrStdout(), f, persons, func(w io.Writer) error {
				for _, p := range persons {
					writePersonLine(w, p)
				}
				fmt.Fprintf(w, "%d record(s)\n", len(persons))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	filter.bind(cmd)
	return cmd
}

func newShowCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one person by id",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			p, err := svc.GetByID(args[0])
			if err != nil {
				if errors.Is(err, person.ErrNotFound) {
					return withCode(exitValidation, fmt.Errorf("person %q not found", args[0]))
				}
				return err
			}
			vm := mappers.PersonToViewModel(p)
			return render(cmd.OutOrStdout(), f, vm, func(w io.Writer) error {
				fields := [][2]string{
					{"id", vm.ID},
					{"name", vm.Name},
					{"rank/title", vm.RankTitle},
					{"position", vm.Position},
					{"position type", vm.PositionType},
					{"status", vm.Status},
					{"service", vm.ServiceAgency},
					{"organization", vm.OrganizationName},
					{"parent", vm.ParentOrganization},
					{"email", vm.Email},
					{"phone", vm.Phone},
					{"location", vm.Location},
					{"mission areas", strings.Join(vm.MissionAreas, ", ")},
					{"key programs", strings.Join(vm.KeyPrograms, ", ")},
				}
				for _, kv := range fields {
					if kv[1] == "" {
						continue
					}
					fmt.Fprintf(w, "%-14s %s\n", kv[0]+":", kv[1])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	return cmd
}

func newValuesCmd(g *globalOptions) *cobra.Command {
	var (
		format string
		query  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "values <field>",
		Short: "List the distinct values of a field, or suggest matches for -q",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			field, ok := person.ParseField(args[0])
			if !ok {
				return withCode(exitUsage, fmt.Errorf("unknown field: %s", args[0]))
			}
			svc, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			var values []string
			if strings.TrimSpace(query) == "" {
				values = svc.UniqueValues(field)
			} else {
				values = svc.SuggestValues(field, query, limit)
			}
			resp := viewmodels.Values{Field: string(field), Query: query, Values: values}
			return render(cmd.OutOrStdout(), f, resp, func(w io.Writer) error {
				for _, v := range values {
					fmt.Fprintln(w, v)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text|json|yaml")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Suggest values containing this text")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum suggestions")
	return cmd
}
