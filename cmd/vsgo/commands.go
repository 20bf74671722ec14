package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/obinnaokechukwu/vsgo"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the output clip's metadata.",
		ArgsUsage: "SCRIPT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "text or yaml",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			src, err := openScript(c, cfg, log)
			if err != nil {
				return err
			}
			defer src.Close()

			info := src.Info()
			switch c.String("format") {
			case "yaml":
				enc := yaml.NewEncoder(c.App.Writer)
				if err := enc.Encode(info); err != nil {
					return err
				}
				return enc.Close()
			case "text":
				w := c.App.Writer
				fmt.Fprintf(w, "Width:      %d\n", info.Width)
				fmt.Fprintf(w, "Height:     %d\n", info.Height)
				fmt.Fprintf(w, "Frames:     %d\n", info.NumFrames)
				fmt.Fprintf(w, "FPS:        %s (%.3f)\n", info.FPS, info.FPS.Float64())
				fmt.Fprintf(w, "Format:     %s\n", info.Format)
				fmt.Fprintf(w, "Frame size: %d\n", info.FrameSize)
				fmt.Fprintf(w, "Packed:     %d\n", info.PackedSize)
				return nil
			default:
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
		},
	}
}

func pipeCommand() *cli.Command {
	return &cli.Command{
		Name:      "pipe",
		Usage:     "Write frames as YUV4MPEG2 or raw planes.",
		ArgsUsage: "SCRIPT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "output file, - for stdout",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "write packed planes without YUV4MPEG2 framing",
			},
			&cli.IntFlag{Name: "start", Usage: "first frame"},
			&cli.IntFlag{Name: "end", Usage: "frame after the last one (default: all frames)"},
			&cli.IntFlag{Name: "lookahead", Usage: "frames fetched ahead of the writer"},
			&cli.IntFlag{Name: "workers", Usage: "concurrent frame fetches (0: one per CPU)"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			var out io.Writer = c.App.Writer
			if path := c.String("output"); path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			} else if isTerminal(out) {
				return errors.New("refusing to write frames to a terminal, use --output or a pipe")
			}

			var opts []vsgo.Option
			if cfg.MetricsAddr != "" {
				metrics, stop := startMetricsServer(cfg.MetricsAddr, log)
				defer stop()
				opts = append(opts, vsgo.WithMetrics(metrics))
			}

			src, err := openScript(c, cfg, log, opts...)
			if err != nil {
				return err
			}
			defer src.Close()

			end := src.Info().NumFrames
			if c.IsSet("end") {
				end = c.Int("end")
			}
			stream, err := vsgo.NewStream(src,
				vsgo.WithY4M(cfg.Y4M),
				vsgo.WithLookahead(cfg.Lookahead),
				vsgo.WithRange(c.Int("start"), end))
			if err != nil {
				return err
			}
			defer stream.Close()

			start := time.Now()
			n, err := io.Copy(out, stream)
			if err != nil {
				return err
			}
			log.Info("pipe finished",
				zap.Int("frames", end-c.Int("start")),
				zap.Int64("bytes", n),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:      "snapshot",
		Usage:     "Save one frame as PNG.",
		ArgsUsage: "SCRIPT",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "frame",
				Aliases: []string{"f"},
				Usage:   "frame number",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "PNG file to write",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "scale to this width, keeping the aspect ratio",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			src, err := openScript(c, cfg, log)
			if err != nil {
				return err
			}
			defer src.Close()

			info := src.Info()
			buf := make([]byte, info.FrameSize)
			if err := src.GetFrame(c.Int("frame"), buf); err != nil {
				return err
			}
			img, err := vsgo.FrameImage(info, buf)
			if err != nil {
				return err
			}
			if w := c.Int("width"); w > 0 && w != info.Width {
				img = scale(img, w)
			}

			f, err := os.Create(c.String("output"))
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return err
			}
			log.Info("snapshot written",
				zap.String("path", c.String("output")),
				zap.Int("frame", c.Int("frame")))
			return f.Close()
		},
	}
}

// scale resizes img to width, keeping the aspect ratio.
func scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information.",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "vsgo %s\n", version)

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.LibraryPath != "" {
				vsgo.SetLibraryPath(cfg.LibraryPath)
			}
			if err := vsgo.Init(); err != nil {
				fmt.Fprintf(c.App.Writer, "VapourSynth: not available (%v)\n", err)
				return nil
			}
			major, minor := vsgo.APIVersion()
			fmt.Fprintf(c.App.Writer, "VapourSynth API: %d.%d\n", major, minor)
			return nil
		},
	}
}
