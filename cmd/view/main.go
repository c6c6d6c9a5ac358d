package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"softgpu/internal/config"
	"softgpu/internal/device"
	"softgpu/internal/logging"
	"softgpu/internal/raster"
	"softgpu/internal/scene"
	"softgpu/internal/shader"
)

// window presents the last swapped frame. The producer writes front after
// every Swap and Draw uploads it on the ebiten thread.
type window struct {
	mu    sync.Mutex
	front *image.RGBA
	dirty bool

	screenImg *ebiten.Image
	w, h      int
	done      <-chan struct{}
}

func (g *window) present(rt *raster.RenderTarget) {
	g.mu.Lock()
	rt.CopyTo(g.front)
	g.dirty = true
	g.mu.Unlock()
}

func (g *window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *window) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(g.w, g.h)
	}
	g.mu.Lock()
	if g.dirty {
		g.screenImg.WritePixels(g.front.Pix)
		g.dirty = false
	}
	g.mu.Unlock()
	screen.DrawImage(g.screenImg, nil)
}

func (g *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}

func main() {
	configFile := flag.String("config", "", "Path to a .json or .yaml config file")
	sceneName := flag.String("scene", "cube", "Scene to show")
	width := flag.Int("width", 0, "Window width (default: 800)")
	height := flag.Int("height", 0, "Window height (default: 600)")
	texDir := flag.String("textures", "", "Directory of textures to index")
	texName := flag.String("texture", "", "Texture name used by textured scenes")
	texFilter := flag.String("filter", "", "Texture filter: nearest, bilinear")
	verbose := flag.Bool("v", false, "Log pipeline activity to stderr")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scene:      *sceneName,
		Width:      *width,
		Height:     *height,
		TextureDir: *texDir,
		Texture:    *texName,
		Filter:     *texFilter,
	})
	// The window shows frames at their rendered size.
	cfg.Supersample = 1

	sc, rt, err := scene.Prepare(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	g := &window{
		front: image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		w:     cfg.Width,
		h:     cfg.Height,
		done:  done,
	}

	dev := device.New[shader.Vertex, shader.Varying]()
	var devErr error
	go func() {
		defer close(done)
		devErr = dev.Run(ctx, func(ctx context.Context, p *scene.Producer) error {
			p.SetRenderTarget(rt)
			sc.Setup(p)
			for i := 0; ctx.Err() == nil; i++ {
				sc.Frame(p, i)
				if err := p.Swap(); err != nil {
					return err
				}
				g.present(rt)
			}
			return nil
		})
	}()

	ebiten.SetWindowTitle("softgpu: " + cfg.Scene)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(60)
	runErr := ebiten.RunGame(g)

	cancel()
	<-done
	if devErr != nil && !errors.Is(devErr, context.Canceled) && runErr == nil {
		runErr = devErr
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
