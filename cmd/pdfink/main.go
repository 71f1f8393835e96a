// Command pdfink annotates PDF documents from the command line: it loads
// a PDF and an optional saved session, applies page operations, and
// exports the annotated result as a PDF or as page images.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pdfink/pdfink"
	"github.com/pdfink/pdfink/export"
	"github.com/pdfink/pdfink/persist"
	"github.com/pdfink/pdfink/render"
)

// config holds the YAML-configurable defaults. Flags override it.
type config struct {
	Format  string  `yaml:"format"`
	Scope   string  `yaml:"scope"`
	Quality float64 `yaml:"quality"`
	Scale   float64 `yaml:"scale"`
	OutDir  string  `yaml:"outDir"`
}

func defaultConfig() config {
	return config{Format: "pdf", Scope: export.ScopeAll, Scale: 1, OutDir: "."}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var (
		in          = flag.String("in", "", "input PDF file")
		sessionPath = flag.String("session", "", "session file to load and save")
		configPath  = flag.String("config", "pdfink.yaml", "defaults file (YAML)")
		format      = flag.String("format", "", "output format: pdf, png, jpeg or webp")
		scope       = flag.String("scope", "", "export scope: all or page-N")
		quality     = flag.Float64("quality", 0, "raster quality in (0, 1]")
		scale       = flag.Float64("scale", 0, "raster render scale")
		out         = flag.String("out", "", "output directory")
		deletePage  = flag.Int("delete-page", 0, "delete the given 1-based page before export")
		movePage    = flag.String("move-page", "", "move a page, as old:new (0-based)")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	pdfink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *scope != "" {
		cfg.Scope = *scope
	}
	if *quality != 0 {
		cfg.Quality = *quality
	}
	if *scale != 0 {
		cfg.Scale = *scale
	}
	if *out != "" {
		cfg.OutDir = *out
	}

	sess := pdfink.NewSession()
	defer sess.Close()

	var store *persist.File
	if *sessionPath != "" {
		store = &persist.File{Path: *sessionPath}
		snap, err := store.Load()
		if err != nil {
			log.Fatalf("load session: %v", err)
		}
		if snap != nil {
			if err := persist.Restore(sess, snap); err != nil {
				log.Fatalf("restore session: %v", err)
			}
		}
	}

	if *in != "" {
		data, err := os.ReadFile(*in)
		if err != nil {
			log.Fatalf("read input: %v", err)
		}
		if err := sess.LoadDocument(filepath.Base(*in), data, nil); err != nil {
			log.Fatalf("load document: %v", err)
		}
	}
	if sess.Document() == nil {
		log.Fatal("no document: pass -in or a -session with stored file data")
	}

	if *deletePage != 0 {
		if err := sess.DeletePage(*deletePage); err != nil {
			log.Fatalf("delete page %d: %v", *deletePage, err)
		}
	}
	if *movePage != "" {
		old, new, err := parseMove(*movePage)
		if err != nil {
			log.Fatalf("move page: %v", err)
		}
		if err := sess.ReorderPage(old, new); err != nil {
			log.Fatalf("move page %s: %v", *movePage, err)
		}
	}

	doc := sess.Document()
	exp := &export.Exporter{
		Doc:         doc,
		Annotations: sess.Store().Annotations(),
		Surface:     sess.Surface,
		Renderer: &render.Blank{PageDim: func(page int) (float64, float64, error) {
			dim, err := doc.PageDim(page)
			return dim.Width, dim.Height, err
		}},
		Scale:      cfg.Scale,
		SourceName: sess.State().FileName,
	}

	outs, skipped, err := exp.Export(context.Background(), export.Request{
		Format:  export.Format(cfg.Format),
		Scope:   cfg.Scope,
		Quality: cfg.Quality,
	})
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	for _, pe := range skipped {
		log.Printf("warning: %v", &pe)
	}
	for _, o := range outs {
		path := filepath.Join(cfg.OutDir, o.Name)
		if err := os.WriteFile(path, o.Data, 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("wrote %s (%d bytes)", path, len(o.Data))
	}

	if store != nil {
		if err := store.Save(persist.Capture(sess)); err != nil {
			log.Fatalf("save session: %v", err)
		}
	}
}

// parseMove parses "old:new" with 0-based page indices.
func parseMove(s string) (old, new int, err error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("want old:new, got %q", s)
	}
	if old, err = strconv.Atoi(a); err != nil {
		return 0, 0, err
	}
	if new, err = strconv.Atoi(b); err != nil {
		return 0, 0, err
	}
	return old, new, nil
}
