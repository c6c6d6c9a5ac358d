package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"softgpu/internal/output"
	"softgpu/internal/postprocess"
	"softgpu/internal/texture"
)

func dumpThumb(dir string, name string, tex *texture.Texture, size int, f output.Format) error {
	w, h := size, size
	if tex.Width() > tex.Height() {
		h = max(1, size*tex.Height()/tex.Width())
	} else if tex.Height() > tex.Width() {
		w = max(1, size*tex.Width()/tex.Height())
	}
	img := postprocess.DownsampleNRGBA(tex.Image(), w, h)
	dst := filepath.Join(dir, name+f.Ext())
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()
	if err := output.Encode(out, img, f, 90); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return nil
}

func main() {
	thumbDir := flag.String("thumbs", "", "Write a thumbnail of every texture into this directory")
	thumbSize := flag.Int("size", 64, "Thumbnail edge length in pixels")
	format := flag.String("format", "png", "Thumbnail format")
	flag.Parse()

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *thumbDir != "" {
		if err := os.MkdirAll(*thumbDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	idx := texture.BuildIndex(dir)
	cache := texture.NewCache(idx)
	fmt.Printf("Textures: %d indexed in %s\n", idx.Len(), dir)

	failed := 0
	for _, name := range idx.Names() {
		path, _ := idx.ResolvePath(name)
		tex := cache.Resolve(name)
		if tex == nil {
			fmt.Printf("ERR %-24s %s\n", name, path)
			failed++
			continue
		}
		avg := texture.AverageColor(tex)
		fmt.Printf("OK  %-24s %4dx%-4d avg(%3d,%3d,%3d,%3d)  %s\n",
			name, tex.Width(), tex.Height(), avg.R, avg.G, avg.B, avg.A, filepath.Base(path))

		if *thumbDir != "" {
			if err := dumpThumb(*thumbDir, name, tex, *thumbSize, f); err != nil {
				fmt.Printf("    thumbnail: %v\n", err)
				failed++
			}
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
