package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"calmd/internal/catalog"
	"calmd/internal/di"
	"calmd/internal/engagement"
	"calmd/internal/models"
	"calmd/internal/structures"
	"calmd/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var catalogPath string

	root := &cobra.Command{
		Use:           "calmd",
		Short:         "Engagement and guided breathing daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "content catalog YAML (built-in catalog when empty)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newBreatheCmd(&catalogPath))
	root.AddCommand(newPatternsCmd(&catalogPath))
	return root
}

func newServeCmd() *cobra.Command {
	var flags structures.CliFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := di.InitApp(&flags)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "configs/config.yaml", "path to the config file")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console at debug level")
	return cmd
}

func loadLibrary(path string) (*engagement.PatternLibrary, error) {
	c := catalog.Default()
	if path != "" {
		var err error
		if c, err = catalog.Load(path); err != nil {
			return nil, err
		}
	}
	return c.PatternLibrary()
}

func newBreatheCmd(catalogPath *string) *cobra.Command {
	var (
		name     string
		cycles   int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "breathe",
		Short: "Run a guided breathing session in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := loadLibrary(*catalogPath)
			if err != nil {
				return err
			}
			pattern, ok := lib.Get(name)
			if !ok {
				return fmt.Errorf("unknown pattern %q, see `calmd patterns`", name)
			}
			if cycles > 0 {
				pattern.TotalCycles = cycles
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return tui.Run(pattern, interval, ctx.Done())
		},
	}
	cmd.Flags().StringVarP(&name, "pattern", "p", "4-7-8", "breathing pattern name")
	cmd.Flags().IntVarP(&cycles, "cycles", "n", 0, "override the pattern's cycle count")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "length of one countdown step")
	_ = cmd.Flags().MarkHidden("interval")
	return cmd
}

func newPatternsCmd(catalogPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the available breathing patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := loadLibrary(*catalogPath)
			if err != nil {
				return err
			}
			return printPatterns(cmd.OutOrStdout(), lib.List())
		},
	}
}

func printPatterns(w io.Writer, patterns []models.BreathingPattern) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tPHASES\tCYCLES\tDURATION")
	for _, p := range patterns {
		phases := ""
		for i, ph := range p.Phases {
			if i > 0 {
				phases += "-"
			}
			phases += fmt.Sprint(ph.DurationSeconds)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.Name, p.Title, phases, p.TotalCycles, time.Duration(p.TotalDuration())*time.Second)
	}
	return tw.Flush()
}
