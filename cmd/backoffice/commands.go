package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tour_backoffice/internal/app"
	"tour_backoffice/internal/domain"
	"tour_backoffice/internal/schedule"
)

type store interface {
	domain.PackageRepository
	domain.TransportRepository
}

type opener func(ctx context.Context) (store, func(), error)

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Operator tools for package pricing and schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(
		validateCmd(open),
		quoteCmd(open),
		generateShiftsCmd(open),
		generateDeparturesCmd(open),
	)
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func packageArg(args []string) (uuid.UUID, error) {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("package id: %w", err)
	}
	return id, nil
}

func validateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <package-id>",
		Short: "Check price intervals and children rules of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := packageArg(args)
			if err != nil {
				return err
			}
			s, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rep, err := app.NewQuoteService(s, s, nil, 0, 1).Validate(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, rep); err != nil {
				return err
			}
			if !rep.OK() {
				return fmt.Errorf("package %s has %d error(s)", id, len(rep.Errors))
			}
			return nil
		},
	}
}

func quoteCmd(open opener) *cobra.Command {
	var reqPath string
	cmd := &cobra.Command{
		Use:   "quote <package-id>",
		Short: "Price a request read from a JSON file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := packageArg(args)
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if reqPath != "-" {
				f, err := os.Open(reqPath)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var req domain.QuoteRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}

			s, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := app.NewQuoteService(s, s, nil, 0, 1).Quote(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&reqPath, "request", "-", "path to the quote request JSON")
	return cmd
}

type windowFlags struct {
	start, end string
	nights     int
	capacity   int
	save       bool
}

func (w *windowFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&w.end, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&w.nights, "nights", 7, "nights per stay")
	cmd.Flags().IntVar(&w.capacity, "capacity", 0, "spots per window")
	cmd.Flags().BoolVar(&w.save, "save", false, "store the generated rows instead of only printing them")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("capacity")
}

func (w *windowFlags) dates() (domain.Date, domain.Date, error) {
	start, err := domain.ParseDate(w.start)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	end, err := domain.ParseDate(w.end)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	return start, end, nil
}

func generateShiftsCmd(open opener) *cobra.Command {
	var (
		w         windowFlags
		transport float64
	)
	cmd := &cobra.Command{
		Use:   "generate-shifts <package-id>",
		Short: "Lay out back-to-back shifts between two dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := packageArg(args)
			if err != nil {
				return err
			}
			start, end, err := w.dates()
			if err != nil {
				return err
			}
			plan := schedule.ShiftPlan{PackageID: id, Start: start, End: end, Nights: w.nights, Capacity: w.capacity}
			if cmd.Flags().Changed("transport") {
				fare := domain.Euros(transport)
				plan.TransportFare = &fare
			}
			shifts, err := schedule.GenerateShifts(plan)
			if err != nil {
				return err
			}
			if w.save {
				s, closeFn, err := open(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				if _, err := s.GetPackage(cmd.Context(), id); err != nil {
					return err
				}
				if err := s.InsertShifts(cmd.Context(), id, shifts); err != nil {
					return err
				}
			}
			return printJSON(cmd, shifts)
		},
	}
	w.bind(cmd)
	cmd.Flags().Float64Var(&transport, "transport", 0, "transport price per person for every shift")
	return cmd
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func parseWeekdays(in []string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if len(key) > 3 {
			key = key[:3]
		}
		wd, ok := weekdays[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", s)
		}
		out = append(out, wd)
	}
	return out, nil
}

func generateDeparturesCmd(open opener) *cobra.Command {
	var (
		w    windowFlags
		days []string
	)
	cmd := &cobra.Command{
		Use:   "generate-departures <package-id>",
		Short: "Create departures on the given weekdays between two dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := packageArg(args)
			if err != nil {
				return err
			}
			start, end, err := w.dates()
			if err != nil {
				return err
			}
			wds, err := parseWeekdays(days)
			if err != nil {
				return err
			}
			deps, err := schedule.GenerateDepartures(schedule.DeparturePlan{
				PackageID: id, Start: start, End: end, Weekdays: wds, Nights: w.nights, Capacity: w.capacity,
			})
			if err != nil {
				return err
			}
			if w.save {
				s, closeFn, err := open(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				if _, err := s.GetPackage(cmd.Context(), id); err != nil {
					return err
				}
				if err := s.InsertDepartures(cmd.Context(), id, deps); err != nil {
					return err
				}
			}
			return printJSON(cmd, deps)
		},
	}
	w.bind(cmd)
	cmd.Flags().StringSliceVar(&days, "weekday", nil, "weekdays to depart on, e.g. sat or mon,thu (default every day)")
	return cmd
}
