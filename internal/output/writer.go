package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"softgpu/internal/logging"
	"softgpu/internal/postprocess"
	"softgpu/internal/raster"
)

// Config holds the settings shared by every frame a Writer saves.
type Config struct {
	Dir     string
	Prefix  string
	Format  Format
	Quality int
	// Width and Height are the final image size. Larger frames, such as
	// supersampled ones, are downsampled to it; zero keeps the frame size.
	Width   int
	Height  int
	Workers int
}

// Result holds the outcome of saving one frame.
type Result struct {
	Frame   int
	Path    string
	Success bool
	Error   string
}

type job struct {
	frame int
	img   *image.RGBA
}

// Writer encodes frames on a pool of workers so the producer only pays for
// the snapshot.
type Writer struct {
	cfg     Config
	jobs    chan job
	wg      sync.WaitGroup
	mu      sync.Mutex
	results []Result
	entries []ManifestEntry

	create func(path string) (io.WriteCloser, error)
}

// NewWriter creates cfg.Dir and starts the workers.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "frame"
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	w := &Writer{cfg: cfg, jobs: make(chan job, cfg.Workers*2), create: createFile}
	for i := 0; i < cfg.Workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for j := range w.jobs {
				w.record(w.save(j))
			}
		}()
	}
	return w, nil
}

// Submit snapshots rt and queues it as frame. Call it only after the Swap
// that completed the frame.
func (w *Writer) Submit(frame int, rt *raster.RenderTarget) {
	w.jobs <- job{frame: frame, img: rt.Image()}
}

// Close waits for queued frames, writes manifest.json and returns the
// results ordered by frame.
func (w *Writer) Close() ([]Result, error) {
	close(w.jobs)
	w.wg.Wait()

	sort.Slice(w.results, func(i, j int) bool { return w.results[i].Frame < w.results[j].Frame })
	if w.entries == nil {
		w.entries = []ManifestEntry{}
	}
	sort.Slice(w.entries, func(i, j int) bool { return w.entries[i].Frame < w.entries[j].Frame })

	if err := WriteManifest(filepath.Join(w.cfg.Dir, "manifest.json"), w.entries); err != nil {
		return w.results, fmt.Errorf("output: manifest: %w", err)
	}
	return w.results, nil
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// FramePath returns the file a frame is written to.
func (w *Writer) FramePath(frame int) string {
	return filepath.Join(w.cfg.Dir, fmt.Sprintf("%s_%04d%s", w.cfg.Prefix, frame, w.cfg.Format.Ext()))
}

func (w *Writer) save(j job) (Result, *ManifestEntry) {
	path := w.FramePath(j.frame)
	res := Result{Frame: j.frame, Path: path}

	img := j.img
	if w.cfg.Width > 0 && w.cfg.Height > 0 {
		img = postprocess.Downsample(img, w.cfg.Width, w.cfg.Height)
	}

	f, err := w.create(path)
	if err != nil {
		res.Error = err.Error()
		return res, nil
	}
	if err := Encode(f, img, w.cfg.Format, w.cfg.Quality); err != nil {
		f.Close()
		res.Error = err.Error()
		return res, nil
	}
	// A failed close can mean the data never reached the disk.
	if err := f.Close(); err != nil {
		res.Error = err.Error()
		return res, nil
	}

	res.Success = true
	size := img.Bounds().Size()
	return res, &ManifestEntry{
		Frame:  j.frame,
		Image:  filepath.Base(path),
		Width:  size.X,
		Height: size.Y,
		Format: w.cfg.Format,
	}
}

func (w *Writer) record(res Result, entry *ManifestEntry) {
	if !res.Success {
		logging.Logger().Warn("frame not saved", "frame", res.Frame, "err", res.Error)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results = append(w.results, res)
	if entry != nil {
		w.entries = append(w.entries, *entry)
	}
}
