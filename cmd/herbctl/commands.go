package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"herbcheck/internal/coordinator"
	"herbcheck/internal/domain"
	"herbcheck/internal/enrichment"
	"herbcheck/internal/enrichment/llm"
	"herbcheck/internal/environment"
	"herbcheck/internal/platform/config"
	"herbcheck/internal/platform/logger"
	"herbcheck/internal/regulatory"
	"herbcheck/internal/species"
	"herbcheck/internal/validation"
	"herbcheck/internal/validation/basic"
	"herbcheck/pkg/requestcontext"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "herbctl",
		Short: "Validate medicinal herb collection events offline",
		Long: `herbctl runs the herbcheck validation pipeline in-process against the
built-in species catalog and the simulated signal provider.

Examples:
  herbctl validate -f event.json --types regulatory,quality
  herbctl requirements brahmi --region kerala
  herbctl season 2024-10-15 --species tulsi`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newValidateCmd(), newRequirementsCmd(), newSeasonCmd())
	return root
}

// toolkit is the in-process service graph shared by the commands.
type toolkit struct {
	catalog  *species.InMemory
	engine   *regulatory.Engine
	sites    *environment.Service
	enricher *enrichment.Enricher
	logger   *slog.Logger
}

func newToolkit(cmd *cobra.Command) (*toolkit, error) {
	cfg := config.FromEnv()
	level, _ := cmd.Flags().GetString("log-level")
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level, "text")

	catalog := species.NewInMemory()
	if err := species.SeedDefaults(cmd.Context(), catalog); err != nil {
		return nil, err
	}

	t := &toolkit{
		catalog: catalog,
		engine:  regulatory.New(regulatory.WithLogger(log), regulatory.WithSpeciesCatalog(catalog)),
		sites:   environment.New(environment.NewSimulatedProvider(), environment.WithLogger(log)),
		logger:  log,
	}

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, llm.WithLogger(log))
	if client.IsConfigured() {
		t.enricher = enrichment.New(client, enrichment.WithLogger(log))
	}
	return t, nil
}

func newValidateCmd() *cobra.Command {
	var (
		file  string
		types []string
		useAI bool
		asOf  string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a collection event read from a JSON file",
		Long: `Validate reads one collection event as JSON (use -f - for stdin), runs the
requested checks and prints the aggregated result.

--ai requires LLM_API_KEY to be set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			event, err := readEvent(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			parsed, err := parseTypes(types)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if asOf != "" {
				now, err := parseDate(asOf)
				if err != nil {
					return err
				}
				ctx = requestcontext.WithTime(ctx, now)
			}

			t, err := newToolkit(cmd)
			if err != nil {
				return err
			}
			if useAI && t.enricher == nil {
				return fmt.Errorf("--ai requires LLM_API_KEY")
			}

			opts := []validation.Option{
				validation.WithLogger(t.logger),
				validation.WithSpeciesCatalog(t.catalog),
			}
			if t.enricher != nil {
				opts = append(opts, validation.WithEnricher(t.enricher))
			}
			coord := coordinator.New(basic.New(basic.DefaultConfig()), t.sites, t.engine, coordinator.WithLogger(t.logger))
			result := validation.New(coord, opts...).Validate(ctx, validation.Request{
				Event: event,
				Types: parsed,
				UseAI: useAI,
			})
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the event JSON, or - for stdin")
	cmd.Flags().StringSliceVar(&types, "types", nil, "Checks to run: satellite, regulatory, quality (default all)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Enrich the result with LLM analysis")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Evaluate harvest age as of this date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRequirementsCmd() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "requirements <species>",
		Short: "Show the regulatory requirements for a species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newToolkit(cmd)
			if err != nil {
				return err
			}
			req, err := t.engine.FetchRequirements(cmd.Context(), args[0], region)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		},
	}
	cmd.Flags().StringVar(&region, "region", regulatory.DefaultRegion, "Region to look up")
	return cmd
}

func newSeasonCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "season <date>",
		Short: "Show the harvest season for a date",
		Long: `Season prints the harvest season a date falls in. With --species it also
reports whether the species may be harvested then.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			season := domain.SeasonFor(date)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, season)
			if name == "" {
				return nil
			}

			t, err := newToolkit(cmd)
			if err != nil {
				return err
			}
			sp, err := t.catalog.Get(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("species %q is not in the catalog", name)
			}
			verdict := "out of season"
			if domain.ContainsSeason(sp.HarvestSeasons, season) {
				verdict = "in season"
			}
			fmt.Fprintf(out, "%s: %s\n", sp.CommonName, verdict)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "species", "", "Check a catalog species against the season")
	return cmd
}

func readEvent(stdin io.Reader, path string) (domain.CollectionEvent, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.CollectionEvent{}, fmt.Errorf("open event: %w", err)
		}
		defer f.Close()
		r = f
	}
	var event domain.CollectionEvent
	if err := json.NewDecoder(r).Decode(&event); err != nil {
		return domain.CollectionEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

func parseTypes(raw []string) ([]domain.ValidationType, error) {
	var out []domain.ValidationType
	for _, r := range raw {
		t, err := domain.ParseValidationType(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", raw)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
