// Package config собирает параметры запуска.
//
// Порядок применения (каждый следующий слой перекрывает предыдущий):
//  1. Значения по умолчанию (Default)
//  2. TOML файл (если задан путь)
//  3. Переменные окружения с префиксом SAVE_
//  4. Флаги CLI (применяются в пакете cli)
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gonum.org/v1/plot/vg"

	"github.com/shaiso/sdr/internal/datasets"
	"github.com/shaiso/sdr/internal/domain"
	"github.com/shaiso/sdr/internal/plotting"
	"github.com/shaiso/sdr/internal/sdr"
	"github.com/shaiso/sdr/internal/steps"
)

// EnvPrefix — префикс переменных окружения.
const EnvPrefix = "SAVE_"

// DefaultSeed — seed демонстрационного запуска.
const DefaultSeed = 123

// ErrInvalidConfig — некорректное значение конфигурации.
var ErrInvalidConfig = errors.New("invalid config")

// Config — параметры запуска pipeline.
type Config struct {
	Seed     int64   `toml:"seed" env:"SEED"`
	Samples  int     `toml:"samples" env:"SAMPLES"`
	Features int     `toml:"features" env:"FEATURES"`
	Noise    float64 `toml:"noise" env:"NOISE"`

	Method     string `toml:"method" env:"METHOD"`
	Slices     int    `toml:"slices" env:"SLICES"`
	Directions int    `toml:"directions" env:"DIRECTIONS"`

	Output string `toml:"output" env:"OUTPUT"`

	// Show — открыть график в системном просмотрщике.
	// По умолчанию включён, если есть дисплей.
	Show bool `toml:"show" env:"SHOW"`

	// Width и Height — размер графика в дюймах.
	Width  float64 `toml:"width" env:"WIDTH"`
	Height float64 `toml:"height" env:"HEIGHT"`

	// MetricsFile — путь для выгрузки метрик в textfile формате.
	// Пусто — метрики не пишутся.
	MetricsFile string `toml:"metrics_file" env:"METRICS_FILE"`
}

// Default возвращает конфигурацию, воспроизводящую демонстрационный запуск.
func Default() Config {
	return Config{
		Seed:       DefaultSeed,
		Samples:    datasets.DefaultSamples,
		Features:   datasets.DefaultFeatures,
		Noise:      datasets.DefaultNoise,
		Method:     sdr.MethodSAVE,
		Slices:     sdr.DefaultSlices,
		Directions: sdr.DefaultDirections,
		Output:     steps.DefaultOutput,
		Show:       plotting.DisplayAvailable(),
		Width:      float64(plotting.DefaultWidth / vg.Inch),
		Height:     float64(plotting.DefaultHeight / vg.Inch),
	}
}

// Load собирает конфигурацию: defaults → файл → окружение.
// path может быть пустым.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyFile перекрывает только ключи, явно заданные в файле.
func (c *Config) applyFile(path string) error {
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("seed") {
		c.Seed = raw.Seed
	}
	if meta.IsDefined("samples") {
		c.Samples = raw.Samples
	}
	if meta.IsDefined("features") {
		c.Features = raw.Features
	}
	if meta.IsDefined("noise") {
		c.Noise = raw.Noise
	}
	if meta.IsDefined("method") {
		c.Method = strings.TrimSpace(raw.Method)
	}
	if meta.IsDefined("slices") {
		c.Slices = raw.Slices
	}
	if meta.IsDefined("directions") {
		c.Directions = raw.Directions
	}
	if meta.IsDefined("output") {
		c.Output = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("show") {
		c.Show = raw.Show
	}
	if meta.IsDefined("width") {
		c.Width = raw.Width
	}
	if meta.IsDefined("height") {
		c.Height = raw.Height
	}
	if meta.IsDefined("metrics_file") {
		c.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	}

	return nil
}

// applyEnv перекрывает поля заданными переменными SAVE_*.
func (c *Config) applyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate проверяет параметры, за которые не отвечают шаги pipeline.
//
// Диапазоны seed, samples, features и noise проверяет генератор датасета,
// чтобы ошибка имела тип datasets.InputValidationError.
func (c Config) Validate() error {
	if _, err := sdr.New(c.Method); err != nil {
		return fmt.Errorf("%w: method: %v", ErrInvalidConfig, err)
	}
	if c.Slices < 2 {
		return fmt.Errorf("%w: slices must be >= 2, got %d", ErrInvalidConfig, c.Slices)
	}
	if c.Directions < 1 {
		return fmt.Errorf("%w: directions must be >= 1, got %d", ErrInvalidConfig, c.Directions)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output is empty", ErrInvalidConfig)
	}
	if !(c.Width > 0) || !(c.Height > 0) || math.IsInf(c.Width, 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("%w: figure size must be positive, got %vx%v", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// RendererOptions возвращает опции plotting.Renderer для размера графика.
func (c Config) RendererOptions() []plotting.Option {
	return []plotting.Option{
		plotting.WithSize(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch),
	}
}

// Params переводит конфигурацию в параметры стандартного pipeline.
func (c Config) Params() domain.PipelineParams {
	return domain.PipelineParams{
		Seed:       c.Seed,
		Samples:    c.Samples,
		Features:   c.Features,
		Noise:      c.Noise,
		Method:     strings.ToLower(strings.TrimSpace(c.Method)),
		Slices:     c.Slices,
		Directions: c.Directions,
		Output:     c.Output,
		Show:       c.Show,
	}
}
