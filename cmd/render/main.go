package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"softgpu/internal/config"
	"softgpu/internal/device"
	"softgpu/internal/logging"
	"softgpu/internal/output"
	"softgpu/internal/scene"
	"softgpu/internal/shader"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json or .yaml config file")
	sceneName := flag.String("scene", "", "Scene to render: "+strings.Join(scene.Names(), ", ")+" (default: triangle)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: 1)")
	width := flag.Int("width", 0, "Output width in pixels (default: 800)")
	height := flag.Int("height", 0, "Output height in pixels (default: 600)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	format := flag.String("format", "", "Image format: bmp, png, jpeg, webp, tga (default: bmp)")
	quality := flag.Int("quality", 0, "JPEG quality 1-100 (default: 90)")
	supersample := flag.Int("supersample", 0, "Render at N times the size and downsample (default: 1)")
	texDir := flag.String("textures", "", "Directory of textures to index")
	texName := flag.String("texture", "", "Texture name (file stem) used by textured scenes")
	texFilter := flag.String("filter", "", "Texture filter: nearest, bilinear (default: nearest)")
	workers := flag.Int("workers", 0, "Number of encoder goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Log pipeline activity to stderr")

	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Scene:       *sceneName,
		Frames:      *frames,
		Width:       *width,
		Height:      *height,
		OutputDir:   *outputDir,
		Format:      *format,
		Quality:     *quality,
		Supersample: *supersample,
		TextureDir:  *texDir,
		Texture:     *texName,
		Filter:      *texFilter,
		Workers:     *workers,
	})

	imgFormat, err := output.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sc, rt, err := scene.Prepare(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wcfg := output.Config{
		Dir:     cfg.OutputDir,
		Prefix:  cfg.Prefix,
		Format:  imgFormat,
		Quality: cfg.Quality,
		Workers: cfg.Workers,
	}
	if cfg.Supersample > 1 {
		wcfg.Width, wcfg.Height = cfg.Width, cfg.Height
	}
	writer, err := output.NewWriter(wcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rw, rh := cfg.RenderSize()
	fmt.Printf("Software GPU renderer → %s\n", strings.ToUpper(string(imgFormat)))
	fmt.Printf("Scene: %s, Frames: %d, Size: %dx%d (render %dx%d)\n",
		cfg.Scene, cfg.Frames, cfg.Width, cfg.Height, rw, rh)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	pb := progressbar.Default(int64(cfg.Frames))

	dev := device.New[shader.Vertex, shader.Varying]()
	runErr := dev.Run(ctx, func(ctx context.Context, p *scene.Producer) error {
		p.SetRenderTarget(rt)
		sc.Setup(p)
		for i := 0; i < cfg.Frames; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc.Frame(p, i)
			if err := p.Swap(); err != nil {
				return err
			}
			writer.Submit(i, rt)
			pb.Add(1)
		}
		return nil
	})
	pb.Finish()

	results, err := writer.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	triangles, pixels := dev.Gpu.Stats()
	fmt.Printf("Triangles: %d, Pixels: %d\n", triangles, pixels)

	// Count results
	var failures []output.Result
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r)
		}
	}
	fmt.Printf("Saved: %d/%d\n", len(results)-len(failures), cfg.Frames)

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(20, len(failures))
		for _, r := range failures[:limit] {
			fmt.Printf("  frame %d: %s\n", r.Frame, r.Error)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
	if len(failures) > 0 {
		os.Exit(1)
	}
}
