package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/robosim/internal/analysis"
	"github.com/san-kum/robosim/internal/config"
	"github.com/san-kum/robosim/internal/export"
	"github.com/san-kum/robosim/internal/logging"
	"github.com/san-kum/robosim/internal/optim"
	"github.com/san-kum/robosim/internal/sim"
	"github.com/san-kum/robosim/internal/storage"
	"github.com/san-kum/robosim/internal/tui"
	"github.com/san-kum/robosim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	engineName string
	meshFile   string
	mode       string
	preset     string
	dt         float64
	duration   float64
	exportPath string
	noSave     bool
	watch      bool
	frameRate  int
	jointName  string
	theme      string
	svgPath    string
	tolerance  float64
	kpGrid     []float64
	kdGrid     []float64
	metricName string

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "robosim",
		Short: "robot link assembly and joint control simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if logger, err = logging.New(os.Stderr, logLevel); err != nil {
				return err
			}
			logging.Install(logger)
			viz.SetTheme(theme)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".robosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	buildCmd := &cobra.Command{
		Use:   "build [description]",
		Short: "assemble a robot and print its links and joints",
		Args:  cobra.MaximumNArgs(1),
		RunE:  buildModel,
	}
	addSessionFlags(buildCmd)
	buildCmd.Flags().StringVar(&svgPath, "svg", "", "write the assembled skeleton as SVG to this path")

	runCmd := &cobra.Command{
		Use:   "run [description]",
		Short: "run the joint controller against a trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().StringVar(&preset, "preset", "", "preset name, or a comma separated list to run side by side")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (default from config)")
	runCmd.Flags().StringVar(&exportPath, "export", "", "also write the run as JSON to this path")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw joint bars while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	liveCmd := &cobra.Command{
		Use:   "live [description]",
		Short: "step the simulation interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "preset name")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "duration (default from config)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot commanded and sensed joint positions",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&jointName, "joint", "", "only plot this joint")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write <prefix>_<joint>.svg per joint")

	tuneCmd := &cobra.Command{
		Use:   "tune [description]",
		Short: "grid search drive gains for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneDrive,
	}
	addSessionFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&preset, "preset", "", "preset name")
	tuneCmd.Flags().Float64Var(&duration, "time", 0, "duration (default from config)")
	tuneCmd.Flags().Float64SliceVar(&kpGrid, "kp", []float64{1e3, 1e4, 1e5}, "position gains to try")
	tuneCmd.Flags().Float64SliceVar(&kdGrid, "kd", []float64{1e2, 1e3, 1e4}, "velocity gains to try")
	tuneCmd.Flags().StringVar(&metricName, "metric", "tracking_error", "metric to minimise")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling time and ringing per joint",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&tolerance, "tol", 0.01, "settling band (rad)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [engine]",
		Short: "list available presets for an engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engines := []string{config.EngineMemory, config.EngineChipmunk}
			if len(args) > 0 {
				engines = args
			}
			for _, e := range engines {
				presets := config.ListPresets(e)
				if len(presets) == 0 {
					fmt.Printf("no presets for engine: %s\n", e)
					continue
				}
				fmt.Printf("presets for %s:\n", e)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(buildCmd, runCmd, liveCmd, tuneCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&engineName, "engine", "", "physics engine (memory, chipmunk)")
	cmd.Flags().StringVar(&meshFile, "meshes", "", "mesh library path (yaml)")
	cmd.Flags().StringVar(&mode, "mode", "", "control mode (kinematic, dynamic)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from config)")
}

func descriptionPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Description != "" {
		return cfg.Description, nil
	}
	return "", fmt.Errorf("no robot description given")
}

func openSession(args []string, presetName string) (*session, error) {
	cfg, err := loadConfig(presetName)
	if err != nil {
		return nil, err
	}
	path, err := descriptionPath(args, cfg)
	if err != nil {
		return nil, err
	}
	return newSession(path, cfg, logger)
}

func buildModel(cmd *cobra.Command, args []string) error {
	s, err := openSession(args, "")
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(s.model.Name))
	fmt.Println(viz.LinkTable(s.model))
	fmt.Println(viz.JointTable(s.model, s.engine))
	fmt.Printf("links: %d  joints: %d  skipped: %d  faults: %d\n",
		s.summary.Links, s.summary.Joints, s.summary.Skipped, s.summary.Faults)

	if svgPath != "" {
		skel := viz.NewSkeleton(s.model, s.engine)
		svg := export.SkeletonToSVG(skel, 640, 480, "#00ffff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("skeleton written to %s\n", svgPath)
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	presets := []string{preset}
	if strings.Contains(preset, ",") {
		presets = strings.Split(preset, ",")
	}

	sessions := make([]*session, 0, len(presets))
	jobs := make([]sim.Job, 0, len(presets))
	for _, p := range presets {
		s, err := openSession(args, strings.TrimSpace(p))
		if err != nil {
			return err
		}
		sm := s.simulator()
		if watch && len(presets) == 1 {
			r := tui.NewLiveRenderer(os.Stdout, s.model.Name, frameRate)
			r.Start()
			defer r.Stop()
			sm.AddObserver(r)
		}
		sessions = append(sessions, s)
		jobs = append(jobs, s.job(sm))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	first := sessions[0]
	fmt.Printf("running %s on %s...\n", first.model.Name, first.cfg.Engine)
	start := time.Now()

	results, err := sim.NewBatch(jobs...).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for i, result := range results {
		s := sessions[i]
		meta := storage.RunMetadata{
			Model:       s.model.Name,
			Description: s.cfg.Description,
			Engine:      s.cfg.Engine,
			Mode:        s.controller.Mode().String(),
			Dt:          s.cfg.Dt,
			Duration:    s.cfg.Duration,
			Faults:      len(s.faults.Errors),
		}
		if presets[i] != "" {
			fmt.Println(viz.Subtle.Render("preset " + presets[i]))
		}
		if st != nil {
			runID, err := st.Save(meta, result)
			if err != nil {
				return err
			}
			meta.ID = runID
			fmt.Printf("run id: %s\n", runID)
		}
		fmt.Printf("steps: %d\n", result.StepsTaken)
		fmt.Println(viz.MetricsTable(result.Metrics))

		if exportPath != "" {
			path := exportPath
			if len(results) > 1 {
				path = fmt.Sprintf("%s.%d", exportPath, i)
			}
			if err := storage.ExportJSON(path, meta, result); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", path)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := openSession(args, preset)
	if err != nil {
		return err
	}
	sm := s.simulator()
	if err := sm.Start(s.simConfig(), s.trajectory()); err != nil {
		return err
	}
	return tui.Run(sm, s.model, s.engine)
}

func tuneDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(preset)
	if err != nil {
		return err
	}
	path, err := descriptionPath(args, cfg)
	if err != nil {
		return err
	}

	eval := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		point := *cfg
		point.Controller.Drive.PositionGain = params["position_gain"]
		point.Controller.Drive.VelocityGain = params["velocity_gain"]
		s, err := newSession(path, &point, logger)
		if err != nil {
			return nil, err
		}
		result, err := s.simulator().Run(ctx, s.simConfig(), s.trajectory())
		if err != nil {
			return nil, err
		}
		logger.Debug("grid point", "params", params, metricName, result.Metrics[metricName])
		return result.Metrics, nil
	}

	grid := optim.NewGridSearch(
		[]string{"position_gain", "velocity_gain"},
		[][]float64{kpGrid, kdGrid},
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("searching %d drive settings...\n", grid.Points())
	best, value, err := grid.Search(ctx, eval, metricName)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6f\n", metricName, value)
	fmt.Println(viz.MetricsTable(best))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	fmt.Println(viz.RunTable(runs))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, name := range series.Order {
		if jointName != "" && name != jointName {
			continue
		}
		js := series.Joints[name]
		fmt.Println(viz.PlotJoint(name, js.Commanded, js.Sensed))
		fmt.Println()

		if svgPath != "" {
			path := fmt.Sprintf("%s_%s.svg", svgPath, name)
			svg := export.SeriesToSVG(js.Sensed, 800, 300, "#00ff88")
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %s)\n\n", meta.ID, meta.Engine, meta.Mode)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOINT\tPEAK ERR\tSETTLED\tRINGING")
	for _, name := range series.Order {
		js := series.Joints[name]
		errs := analysis.Errors(js.Commanded, js.Sensed)
		settled := "never"
		if t, ok := analysis.SettlingTime(series.Times, errs, tolerance); ok {
			settled = fmt.Sprintf("%.3fs", t)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%s\t%.2fHz\n",
			name,
			analysis.PeakError(errs),
			settled,
			analysis.DominantFrequency(errs, meta.Dt),
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
