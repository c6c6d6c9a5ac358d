package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the render settings for a run.
type Config struct {
	// Scene
	Scene      string     `json:"scene" yaml:"scene"`
	Frames     int        `json:"frames" yaml:"frames"`
	ClearColor [4]float32 `json:"clear_color" yaml:"clear_color"`
	TextureDir string     `json:"texture_dir" yaml:"texture_dir"`
	Texture    string     `json:"texture" yaml:"texture"`
	// TextureFilter is "nearest" or "bilinear".
	TextureFilter string `json:"texture_filter" yaml:"texture_filter"`

	// Camera
	FOV  float32 `json:"fov" yaml:"fov"`
	Near float32 `json:"near" yaml:"near"`
	Far  float32 `json:"far" yaml:"far"`

	// Render target
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
	Supersample int    `json:"supersample" yaml:"supersample"`
	DepthFunc   string `json:"depth_func" yaml:"depth_func"`

	// Output
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	Format    string `json:"format" yaml:"format"`
	Quality   int    `json:"quality" yaml:"quality"`
	Workers   int    `json:"workers" yaml:"workers"`
}

// Load reads a config file. Files ending in .yaml or .yml are YAML,
// anything else is JSON. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene       string
	Frames      int
	Width       int
	Height      int
	OutputDir   string
	Format      string
	Quality     int
	Supersample int
	TextureDir  string
	Texture     string
	Filter      string
	Workers     int
}

// Resolve applies non-zero flags over the file values, then fills any
// empty field with its default.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Filter != "" {
		c.TextureFilter = flags.Filter
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Scene == "" {
		c.Scene = "triangle"
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	if c.Far <= c.Near {
		c.Far = 100
	}
	if c.TextureFilter == "" {
		c.TextureFilter = "nearest"
	}
	if c.DepthFunc == "" {
		c.DepthFunc = "less"
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Prefix == "" {
		c.Prefix = c.Scene
	}
	if c.Format == "" {
		c.Format = "bmp"
	}
	if c.Quality <= 0 {
		c.Quality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	// A zero alpha means the file did not set a clear color.
	if c.ClearColor[3] == 0 {
		c.ClearColor = [4]float32{0, 0, 0, 1}
	}
}

// RenderSize is the render target size including supersampling.
func (c *Config) RenderSize() (int, int) {
	return c.Width * c.Supersample, c.Height * c.Supersample
}
