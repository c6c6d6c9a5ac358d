package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/config"
	"softgpu/internal/logging"
	"softgpu/internal/raster"
	"softgpu/internal/texture"
)

// Prepare builds the scene and render target described by a resolved
// config. A texture that cannot be found falls back to the procedural
// checker.
func Prepare(cfg config.Config) (Scene, *raster.RenderTarget, error) {
	depth, err := raster.ParseDepthFunc(cfg.DepthFunc)
	if err != nil {
		return nil, nil, err
	}

	filter, err := texture.ParseFilter(cfg.TextureFilter)
	if err != nil {
		return nil, nil, err
	}

	var tex *texture.Texture
	if cfg.TextureDir != "" && cfg.Texture != "" {
		cache := texture.NewCache(texture.BuildIndex(cfg.TextureDir))
		tex = cache.Resolve(cfg.Texture)
		if tex == nil {
			logging.Logger().Warn("texture not found, using checker", "dir", cfg.TextureDir, "name", cfg.Texture)
		}
	}

	s, err := New(cfg.Scene, Options{
		Aspect:     float32(cfg.Width) / float32(cfg.Height),
		FOV:        cfg.FOV,
		Near:       cfg.Near,
		Far:        cfg.Far,
		ClearColor: mgl32.Vec4(cfg.ClearColor),
		Texture:    tex,
		Filter:     filter,
	})
	if err != nil {
		return nil, nil, err
	}

	rt := raster.NewRenderTarget(cfg.RenderSize())
	rt.SetDepthFunc(depth)
	return s, rt, nil
}
