// Command inkpage annotates a PDF headlessly.
//
// It opens a document, replays a JSON-lines pointer script against the
// canvas and writes the resulting frame as a PNG:
//
//	inkpage -in paper.pdf -events strokes.jsonl -out annotated.png
//
// With -watch it keeps running and redoes the whole cycle whenever the
// PDF changes on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/inkpage"
	"github.com/gogpu/inkpage/pdfdoc"
	"github.com/gogpu/inkpage/render"
	"github.com/gogpu/inkpage/watch"
)

type config struct {
	in, events, out string
	width, height   int
	spacing         float64
	watch           bool
	verbose         bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "PDF document to annotate")
	flag.StringVar(&cfg.events, "events", "", "JSON-lines pointer script (optional)")
	flag.StringVar(&cfg.out, "out", "inkpage.png", "output PNG file")
	flag.IntVar(&cfg.width, "width", 800, "viewport width")
	flag.IntVar(&cfg.height, "height", 600, "viewport height")
	flag.Float64Var(&cfg.spacing, "spacing", inkpage.DefaultSpacing, "gap between pages in points")
	flag.BoolVar(&cfg.watch, "watch", false, "re-render when the document changes")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	flag.Parse()

	if cfg.in == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	inkpage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("inkpage: %v", err)
	}
}

func run(ctx context.Context, cfg config) error {
	var steps []Step
	if cfg.events != "" {
		f, err := os.Open(cfg.events)
		if err != nil {
			return err
		}
		steps, err = ParseScript(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.events, err)
		}
	}

	s := inkpage.NewSession(inkpage.WithSpacing(cfg.spacing))
	if err := cycle(ctx, s, cfg, steps); err != nil {
		return err
	}
	if !cfg.watch {
		return nil
	}

	w, err := watch.New(ctx, cfg.in, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes():
			// A failed reload leaves the previous frame in place.
			if err := cycle(ctx, s, cfg, steps); err != nil {
				log.Printf("inkpage: reload: %v", err)
			}
		}
	}
}

// cycle loads the document, replays the script and writes the frame.
func cycle(ctx context.Context, s *inkpage.Session, cfg config, steps []Step) error {
	doc, err := pdfdoc.Open(cfg.in)
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()

	if err := s.Open(ctx, doc); err != nil {
		return err
	}
	Apply(s, steps)

	out, err := os.Create(cfg.out)
	if err != nil {
		return err
	}
	if err := render.WritePNG(out, s, cfg.width, cfg.height); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Printf("inkpage: wrote %s (%d pages, %d strokes)", cfg.out,
		s.Canvas().PageCount(), len(s.Canvas().AllStrokes()))
	return nil
}
