package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/sdr/internal/config"
	"github.com/shaiso/sdr/internal/domain"
	"github.com/shaiso/sdr/internal/engine"
	"github.com/shaiso/sdr/internal/pipeline"
	"github.com/shaiso/sdr/internal/plotting"
	"github.com/shaiso/sdr/internal/steps"
	"github.com/shaiso/sdr/internal/telemetry"
)

// Deps — внешние зависимости корневой команды.
// Нулевые значения заменяются на стандартные.
type Deps struct {
	Logger *slog.Logger
	Viewer plotting.Viewer
	Stdout io.Writer
	Stderr io.Writer
}

// flags — значения флагов корневой команды.
type flags struct {
	configPath   string
	pipelinePath string
	jsonOutput   bool

	seed       int64
	samples    int
	features   int
	noise      float64
	method     string
	slices     int
	directions int
	output     string
	show       bool
	width      float64
	height     float64
	metrics    string
}

// NewRootCmd создаёт корневую команду save-quadratic.
func NewRootCmd(version string, deps Deps) *cobra.Command {
	var f flags
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "save-quadratic",
		Short: "Sliced Average Variance Estimation on a synthetic quadratic dataset",
		Long: `Generates the quadratic dataset (seed 123 by default), fits SAVE,
projects X onto the estimated directions and plots X·β̂₁ against y
with the true and estimated directions annotated.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, &f, deps)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Path to TOML config file")
	fl.StringVar(&f.pipelinePath, "pipeline", "", "Path to pipeline JSON (replaces the built-in dataset → estimate → render pipeline)")
	fl.BoolVar(&f.jsonOutput, "json", false, "Output in JSON format")

	fl.Int64Var(&f.seed, "seed", def.Seed, "Random seed for the dataset")
	fl.IntVar(&f.samples, "samples", def.Samples, "Number of samples")
	fl.IntVar(&f.features, "features", def.Features, "Number of features")
	fl.Float64Var(&f.noise, "noise", def.Noise, "Noise standard deviation")
	fl.StringVar(&f.method, "method", def.Method, "Estimator (save, sir)")
	fl.IntVar(&f.slices, "slices", def.Slices, "Number of slices of y")
	fl.IntVar(&f.directions, "directions", def.Directions, "Number of directions to keep")
	fl.StringVar(&f.output, "output", def.Output, "Figure path (.png, .svg, .pdf, ...)")
	fl.BoolVar(&f.show, "show", def.Show, "Open the figure in the system viewer (on by default when a display is present)")
	fl.Float64Var(&f.width, "width", def.Width, "Figure width in inches")
	fl.Float64Var(&f.height, "height", def.Height, "Figure height in inches")
	fl.StringVar(&f.metrics, "metrics-file", def.MetricsFile, "Write Prometheus metrics in textfile format")

	return cmd
}

// loadConfig применяет слои: defaults → файл → env → явно заданные флаги.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	fl := cmd.Flags()
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("samples") {
		cfg.Samples = f.samples
	}
	if fl.Changed("features") {
		cfg.Features = f.features
	}
	if fl.Changed("noise") {
		cfg.Noise = f.noise
	}
	if fl.Changed("method") {
		cfg.Method = f.method
	}
	if fl.Changed("slices") {
		cfg.Slices = f.slices
	}
	if fl.Changed("directions") {
		cfg.Directions = f.directions
	}
	if fl.Changed("output") {
		cfg.Output = f.output
	}
	if fl.Changed("show") {
		cfg.Show = f.show
	}
	if fl.Changed("width") {
		cfg.Width = f.width
	}
	if fl.Changed("height") {
		cfg.Height = f.height
	}
	if fl.Changed("metrics-file") {
		cfg.MetricsFile = f.metrics
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadPipeline(path string, cfg config.Config) (*domain.PipelineSpec, error) {
	if path == "" {
		return domain.DefaultPipeline(cfg.Params()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	return engine.Parse(data)
}

func execute(cmd *cobra.Command, f *flags, deps Deps) error {
	out := NewOutput(f.jsonOutput, deps.Stdout, deps.Stderr)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	spec, err := loadPipeline(f.pipelinePath, cfg)
	if err != nil {
		return err
	}

	rendererOpts := cfg.RendererOptions()
	if deps.Viewer != nil {
		rendererOpts = append(rendererOpts, plotting.WithViewer(deps.Viewer))
	}

	metrics := telemetry.NewMetrics()
	runner := pipeline.New(pipeline.Config{
		Registry: steps.DefaultRegistry(plotting.NewRenderer(rendererOpts...)),
		Metrics:  metrics,
		Logger:   logger,
	})

	run, tmplCtx, runErr := runner.Run(cmd.Context(), spec)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(out, newSummary(spec, run, tmplCtx))
	return nil
}

// Summary — итог выполнения, печатаемый в stdout.
type Summary struct {
	RunID       string    `json:"run_id"`
	Status      string    `json:"status"`
	DurationMS  int64     `json:"duration_ms"`
	Method      string    `json:"method,omitempty"`
	Output      string    `json:"output,omitempty"`
	Eigenvalues []float64 `json:"eigenvalues,omitempty"`
	Beta        []float64 `json:"beta,omitempty"`
	Beta1Hat    []float64 `json:"beta1_hat,omitempty"`
	Stages      []Stage   `json:"stages"`
}

// Stage — строка сводки по шагу.
type Stage struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
}

func newSummary(spec *domain.PipelineSpec, run *domain.Run, tmplCtx *engine.Context) Summary {
	s := Summary{
		RunID:      run.ID.String(),
		Status:     string(run.Status),
		DurationMS: run.Duration().Milliseconds(),
		Stages:     make([]Stage, len(run.Stages)),
	}
	for i, st := range run.Stages {
		s.Stages[i] = Stage{
			ID:         st.StepID,
			Type:       st.Type,
			Status:     string(st.Status),
			DurationMS: st.Duration.Milliseconds(),
		}
	}

	s.Beta, _ = outputByType(spec, tmplCtx, domain.StepTypeDataset, "beta").([]float64)
	s.Beta1Hat, _ = outputByType(spec, tmplCtx, domain.StepTypeEstimate, "beta1_hat").([]float64)
	s.Eigenvalues, _ = outputByType(spec, tmplCtx, domain.StepTypeEstimate, "eigenvalues").([]float64)
	s.Method, _ = outputByType(spec, tmplCtx, domain.StepTypeEstimate, "method").(string)
	s.Output, _ = outputByType(spec, tmplCtx, domain.StepTypeRender, "path").(string)
	return s
}

// outputByType возвращает output первого шага заданного типа.
func outputByType(spec *domain.PipelineSpec, tmplCtx *engine.Context, stepType, key string) any {
	for _, st := range spec.Steps {
		if st.Type == stepType {
			return tmplCtx.Output(st.ID, key)
		}
	}
	return nil
}

func printSummary(out *Output, s Summary) {
	if !out.jsonMode {
		out.Success(fmt.Sprintf("Run %s %s in %s", s.RunID, s.Status, time.Duration(s.DurationMS)*time.Millisecond))
		if s.Output != "" {
			out.Success("Figure written to " + s.Output)
		}
	}

	headers := []string{"FEATURE", "BETA", "BETA1_HAT"}
	rows := make([][]string, len(s.Beta1Hat))
	for i, v := range s.Beta1Hat {
		beta := "-"
		if i < len(s.Beta) {
			beta = formatFloat(s.Beta[i])
		}
		rows[i] = []string{"x" + strconv.Itoa(i), beta, formatFloat(v)}
	}

	out.Print(headers, rows, s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', engine.VectorDecimals, 64)
}
