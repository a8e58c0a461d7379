package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/udf"
	"github.com/zoobzio/udf/pkg/file"
)

var (
	fileFlag     string
	formatFlag   string
	debounceFlag string
)

// Execute runs the udfwatch root command.
func Execute() error {
	root := &cobra.Command{
		Use:          "udfwatch",
		Short:        "Watch a counters file and print derived props as they change",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	root.Flags().StringVarP(&fileFlag, "file", "f", "", "file to watch (env UDFWATCH_FILE)")
	root.Flags().StringVar(&formatFlag, "format", "", "file format: json or yaml (env UDFWATCH_FORMAT)")
	root.Flags().StringVar(&debounceFlag, "debounce", "", "debounce window, e.g. 250ms (env UDFWATCH_DEBOUNCE)")

	return root.ExecuteContext(context.Background())
}

func applyFlags(cmd *cobra.Command, cfg *Config) error {
	if cmd.Flags().Changed("file") {
		cfg.File = fileFlag
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = formatFlag
	}
	if cmd.Flags().Changed("debounce") {
		d, err := parseDuration(debounceFlag)
		if err != nil {
			return err
		}
		cfg.Debounce = d
	}
	return nil
}

func run(ctx context.Context, cfg Config) error {
	hookSignals()
	defer capitan.Shutdown()

	codec, err := cfg.Codec()
	if err != nil {
		return err
	}

	store := udf.NewStore(Tally{}, ReduceTally).ErrorHistorySize(5)

	queue := udf.NewSerialQueue()
	defer queue.Close()

	summary := udf.NewComponent[Summary](queue).
		Named("summary").
		OnChange(func(_ context.Context, _, curr Summary) {
			log.Printf("summary: %d counters, total %d", curr.Counters, curr.Total)
		})
	defer summary.Destroy()
	udf.ConnectBy(summary, store, SummaryConnector{})

	names := udf.NewComponent[string](queue).
		Named("names").
		OnChange(func(_ context.Context, _, curr string) {
			log.Printf("names: [%s]", curr)
		})
	defer names.Destroy()
	udf.ConnectField(names, store, Names, func(s string, _ udf.ActionDispatcher) string { return s })

	src := udf.NewSource[Tally](file.New(cfg.File), store, func(t Tally) udf.Action {
		return ReplaceCounts{Counts: t.Counts}
	}).Codec(codec).Debounce(cfg.Debounce).ErrorHistorySize(5)

	if err := src.Start(ctx); err != nil {
		log.Printf("initial load failed: %v", err)
	}

	<-ctx.Done()
	return nil
}

// hookSignals logs the signals an operator cares about.
func hookSignals() {
	capitan.Hook(udf.SourceHealthChanged, func(_ context.Context, e *capitan.Event) {
		from, _ := udf.KeyOldHealth.From(e)
		to, _ := udf.KeyNewHealth.From(e)
		log.Printf("source health %s -> %s", from, to)
	})
	capitan.Hook(udf.SourceDecodeFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := udf.KeyError.From(e)
		log.Printf("decode failed: %s", msg)
	})
	capitan.Hook(udf.SourceValidationFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := udf.KeyError.From(e)
		log.Printf("rejected: %s", msg)
	})
	capitan.Hook(udf.StoreDispatchRejected, func(_ context.Context, e *capitan.Event) {
		stage, _ := udf.KeyStage.From(e)
		msg, _ := udf.KeyError.From(e)
		log.Printf("store rejected transition at %s: %s", stage, msg)
	})
}

func parseDuration(s string) (d time.Duration, err error) {
	d, err = time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid debounce %q: %w", s, err)
	}
	return d, nil
}
