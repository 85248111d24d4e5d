package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/app"
	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/export"
	"github.com/san-kum/capsim/internal/frame"
	"github.com/san-kum/capsim/internal/gui"
	"github.com/san-kum/capsim/internal/observability"
	"github.com/san-kum/capsim/internal/storage"
	"github.com/san-kum/capsim/internal/tui"
)

var (
	configFile string
	saveRun    bool
	jsonOut    bool
	tableRows  int
	plotWidth  int
	plotHeight int
	force      bool
	svgPath    string

	v   = viper.New()
	cfg *config.Config
	log = zap.NewNop()
)

// main registers the commands and runs the window host when no subcommand
// is given. It exits with status 1 on error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	observability.Sync(log)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "capsim",
		Short:        "capacitive proximity sensor simulator",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./capsim.yaml)")
	pf.String("preset", "", "parameter preset ("+strings.Join(config.ListPresets(), ", ")+")")
	pf.Int("fps", config.DefaultFPS, "frame rate")
	pf.String("data", config.DefaultDataDir, "data directory")
	pf.String("log-level", "info", "log level")
	pf.String("log-file", "", "log file (live mode defaults to <data>/capsim.log)")
	pf.String("theme", config.DefaultTheme, "terminal theme")
	for key, flag := range map[string]string{
		"preset":    "preset",
		"fps":       "fps",
		"data_dir":  "data",
		"log.level": "log-level",
		"log.file":  "log-file",
		"theme":     "theme",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "run headless from a key script such as up:100,idle:20,down:50",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run under <data>/runs")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the trace as JSON instead of a table")
	runCmd.Flags().IntVar(&tableRows, "rows", 20, "table rows")
	runCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	runCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final oscilloscope frame as SVG")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run (latest when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	compareCmd := &cobra.Command{
		Use:   "compare [script] [preset...]",
		Short: "run one script against several presets side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, compareCmd, listCmd, plotCmd, presetsCmd, configCmd)
	return rootCmd
}

// setup loads the layered config and builds the logger. The terminal host
// owns the screen, so it only ever logs to a file.
func setup(fileOnly bool) error {
	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = c

	logCfg := cfg.Log
	if fileOnly {
		logCfg.File = cfg.LogPath()
		log, err = observability.New(logCfg, nil)
	} else {
		log, err = observability.NewStderr(logCfg)
	}
	if err != nil {
		return err
	}
	log.Debug("config loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.String("preset", cfg.Preset),
		zap.Int("fps", cfg.FPS),
	)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if err := setup(true); err != nil {
		return err
	}
	if err := tui.Run(cmd.Context(), cfg, log); err != nil {
		log.Error("terminal host failed", zap.Error(err))
		return err
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	if err := setup(false); err != nil {
		return err
	}
	if err := gui.Run(cmd.Context(), cfg, log); err != nil {
		log.Error("window host failed", zap.Error(err))
		return err
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	if err := setup(false); err != nil {
		return err
	}
	script := "up:100,idle:20,down:120"
	if len(args) > 0 {
		script = args[0]
	}
	segs, err := app.ParseScript(script)
	if err != nil {
		return err
	}

	h, err := app.NewHeadless(cfg, log)
	if err != nil {
		return err
	}
	trace := h.Run(segs)

	meta := storage.RunMetadata{
		Preset:  cfg.Preset,
		Script:  script,
		Physics: cfg.Physics,
		Motion:  cfg.Motion,
	}
	out := cmd.OutOrStdout()
	if jsonOut {
		if err := storage.ExportJSON(out, meta, trace); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "capsim run: %s (%d ticks, preset %s)\n\n", script, len(trace), cfg.Preset)
		if err := app.WriteTable(out, trace, tableRows); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, app.Plot(trace, plotWidth, plotHeight))
	}

	if svgPath != "" {
		rec := h.Surface
		if err := export.WriteFile(svgPath, export.TraceToSVG(rec.Path, rec.W, rec.H, export.Hex(rec.Color))); err != nil {
			return err
		}
		log.Info("trace exported", zap.String("path", svgPath))
	}

	if saveRun {
		st := storage.New(cfg.RunsDir())
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, trace)
		if err != nil {
			return err
		}
		log.Info("run saved", zap.String("id", runID), zap.String("dir", cfg.RunsDir()))
		if !jsonOut {
			fmt.Fprintf(out, "\nsaved as %s\n", runID)
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	if err := setup(false); err != nil {
		return err
	}
	runs, err := storage.New(cfg.RunsDir()).List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSCRIPT\tTICKS\tFINAL HEIGHT\tMAX FREQUENCY (Hz)")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%s\n",
			r.ID, r.Preset, r.Script, r.Ticks,
			r.Summary["final_position"],
			frame.FormatExponential(r.Summary["max_frequency"], frame.ReadoutDigits),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	if err := setup(false); err != nil {
		return err
	}
	st := storage.New(cfg.RunsDir())
	var runID string
	if len(args) > 0 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return err
		}
		runID = latest.ID
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return errors.New("run has no samples")
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s (%d ticks)\n\n", meta.ID, meta.Script, meta.Ticks)
	fmt.Fprint(out, app.Plot(trace, plotWidth, plotHeight))
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	if err := setup(false); err != nil {
		return err
	}
	segs, err := app.ParseScript(args[0])
	if err != nil {
		return err
	}
	presets := args[1:]
	if len(presets) == 0 {
		presets = config.ListPresets()
	}

	results, err := app.Compare(cmd.Context(), presets, segs, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tHEIGHT\tDISTANCE\tCAPACITANCE (F)\tFREQUENCY (Hz)\tPHASE")
	for _, r := range results {
		st := r.Final()
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%s\t%s\t%.3f\n",
			r.Preset, st.Position, st.Distance,
			frame.FormatExponential(st.Capacitance, frame.ReadoutDigits),
			frame.FormatExponential(st.Frequency, frame.ReadoutDigits),
			st.Phase,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available presets:")
	for _, name := range config.ListPresets() {
		p, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-16s L=%g H  step=%g\n", name, p.Physics.Inductance, p.Motion.Step)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "capsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	c := config.DefaultConfig()
	if name := v.GetString("preset"); name != "" {
		p, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		c = p
	}
	if err := config.Save(path, c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
