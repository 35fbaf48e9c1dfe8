package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnegrid/photonforge/pkg/camera"
	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/renderer"
	"github.com/arnegrid/photonforge/pkg/scene"
)

func newRenderCmd() *cobra.Command {
	var (
		sceneFile   string
		demoName    string
		out         string
		width       int
		height      int
		samples     int
		maxBounces  int
		filter      int
		exposure    float64
		workers     int
		photonMap   bool
		photonCount int
		photonPass  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cam, settings, err := resolveScene(sceneFile, demoName)
			if err != nil {
				return err
			}

			logger, flush, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("photonforge: failed to initialize logger: %w", err)
			}
			defer flush()

			applyOverride(cmd, "width", &settings.Width, width)
			applyOverride(cmd, "height", &settings.Height, height)
			applyOverride(cmd, "samples", &settings.Samples, samples)
			applyOverride(cmd, "max-bounces", &settings.MaxBounces, maxBounces)
			applyOverride(cmd, "filter", &settings.Filter, filter)
			applyOverride(cmd, "photon-count", &settings.PhotonCount, photonCount)
			applyOverride(cmd, "photon-passes", &settings.PhotonPasses, photonPass)
			if cmd.Flags().Changed("exposure") {
				settings.Exposure = exposure
			}

			r := buildRenderer(s, cam, settings, workers, logger)

			var img = renderImage(r, photonMap, settings)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("photonforge: failed to create output file: %w", err)
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return fmt.Errorf("photonforge: failed to encode PNG: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sceneFile, "scene", "", "path to a YAML scene description")
	cmd.Flags().StringVar(&demoName, "demo", "default", "built-in demo scene to render (see the `scenes` command); ignored if --scene is set")
	cmd.Flags().StringVar(&out, "out", "render.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "override image width")
	cmd.Flags().IntVar(&height, "height", 0, "override image height")
	cmd.Flags().IntVar(&samples, "samples", 0, "override samples per pixel")
	cmd.Flags().IntVar(&maxBounces, "max-bounces", 0, "override maximum bounce depth")
	cmd.Flags().IntVar(&filter, "filter", 0, "override box-filter radius")
	cmd.Flags().Float64Var(&exposure, "exposure", 0, "override exposure value (stops)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of row workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&photonMap, "photon-map", false, "render via two-pass photon mapping instead of pure path tracing")
	cmd.Flags().IntVar(&photonCount, "photon-count", 0, "override total photons shot across all passes")
	cmd.Flags().IntVar(&photonPass, "photon-passes", 0, "override number of photon-shoot/gather passes")

	return cmd
}

func resolveScene(sceneFile, demoName string) (*scene.Scene, camera.Camera, scene.RenderSettings, error) {
	if sceneFile != "" {
		cfg, err := scene.LoadConfig(sceneFile)
		if err != nil {
			return nil, camera.Camera{}, scene.RenderSettings{}, err
		}
		return cfg.Build()
	}

	build, ok := demoScenes[demoName]
	if !ok {
		return nil, camera.Camera{}, scene.RenderSettings{}, fmt.Errorf("photonforge: unknown demo scene %q (see `photonforge scenes`)", demoName)
	}
	s, cam := build()
	return s, cam, scene.DefaultRenderSettings(), nil
}

// applyOverride copies flagValue into *field only when the user explicitly
// set the flag on the command line, so an unset flag never clobbers a value
// already resolved from a scene config file or demo default.
func applyOverride(cmd *cobra.Command, flag string, field *int, flagValue int) {
	if cmd.Flags().Changed(flag) {
		*field = flagValue
	}
}

func buildRenderer(s *scene.Scene, cam camera.Camera, settings scene.RenderSettings, workers int, logger core.Logger) *renderer.Renderer {
	r := renderer.New(s, cam).
		WithWidth(settings.Width).
		WithHeight(settings.Height).
		WithNumSamples(settings.Samples).
		WithMaxBounces(settings.MaxBounces).
		WithFilter(settings.Filter).
		WithExposureValue(settings.Exposure).
		WithLogger(logger)
	if workers > 0 {
		r = r.WithWorkers(workers)
	}
	return r
}

func renderImage(r *renderer.Renderer, photonMap bool, settings scene.RenderSettings) image.Image {
	if photonMap {
		return r.PhotonMapRender(settings.PhotonCount, settings.PhotonPasses)
	}
	return r.Render()
}
