package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/internal/config"
	"github.com/Faultbox/meshbake/internal/logger"
	"github.com/Faultbox/meshbake/internal/resource"
	"github.com/Faultbox/meshbake/internal/watch"
	"github.com/Faultbox/meshbake/pkg/bake"
	"github.com/Faultbox/meshbake/pkg/scenegraph"
)

// setup parses bake flags and returns the effective, validated config with
// the logger initialized from it.
func setup(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.DefaultOptions(cfg.Logging.Level, cfg.Logging.LogFile)); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if flags.DumpConfig != "" {
		if err := cfg.SaveTo(flags.DumpConfig); err != nil {
			return nil, fmt.Errorf("writing config: %w", err)
		}
		logger.Log.Info("config written", zap.String("path", flags.DumpConfig))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cmdBake(args []string) error {
	cfg, err := setup("bake", args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	stats, err := runBake(cfg, logger.Named("bake"))
	if err != nil {
		return err
	}
	printStats(cfg, stats)
	return nil
}

// runBake loads the input, bakes it and writes the output document.
func runBake(cfg *config.Config, log *zap.Logger) (*bake.Stats, error) {
	in, err := resource.NewStore(cfg.Input.BaseDir)
	if err != nil {
		return nil, err
	}
	src, err := in.Load(cfg.Input.File)
	if err != nil {
		return nil, err
	}
	log.Debug("source loaded",
		zap.String("file", cfg.Input.File),
		zap.Int("nodes", len(src.Nodes)),
		zap.Int("meshes", len(src.Meshes)),
	)

	binary := cfg.Output.Binary || resource.IsBinaryName(cfg.Output.File)
	opts := bake.Options{
		BufferName:       cfg.Output.BufferName,
		BufferURI:        resource.BufferURI(cfg.Output.File, cfg.Output.BufferName, binary),
		TransformNormals: cfg.Bake.TransformNormals,
		KeepCamera:       cfg.Bake.KeepCamera,
		Logger:           log,
	}
	doc, stats, err := bake.Bake(src, opts)
	if err != nil {
		return nil, fmt.Errorf("baking %s: %w", cfg.Input.File, err)
	}

	outDir := cfg.OutputDir()
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", resource.ErrNotAccessible, err)
	}
	out, err := resource.NewStore(outDir)
	if err != nil {
		return nil, err
	}
	if err := out.Save(doc, cfg.Output.File, binary); err != nil {
		return nil, err
	}
	log.Info("output written", zap.String("file", filepath.Join(out.Base(), cfg.Output.File)))
	return stats, nil
}

func printStats(cfg *config.Config, s *bake.Stats) {
	fmt.Printf("Input:        %s\n", filepath.Join(cfg.Input.BaseDir, cfg.Input.File))
	fmt.Printf("Output:       %s\n", filepath.Join(cfg.OutputDir(), cfg.Output.File))
	fmt.Printf("Nodes:        %d (%d roots, depth %d)\n", s.SourceNodes, s.Roots, s.MaxDepth)
	fmt.Printf("Mesh nodes:   %d\n", s.MeshNodes)
	fmt.Printf("Primitives:   %d\n", s.Primitives)
	fmt.Printf("Accessors:    %d\n", s.Accessors)
	fmt.Printf("Buffer views: %d\n", s.BufferViews)
	fmt.Printf("Buffer:       %.2f KB\n", float64(s.BufferBytes)/1024)
	if s.Camera {
		fmt.Println("Camera:       kept")
	}
	if s.SkippedCameras > 0 {
		fmt.Printf("Skipped:      %d camera node(s)\n", s.SkippedCameras)
	}
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshbake info <file.gltf>")
		os.Exit(1)
	}

	store, err := resource.NewStore(filepath.Dir(args[0]))
	if err != nil {
		return err
	}
	doc, err := store.Load(filepath.Base(args[0]))
	if err != nil {
		return err
	}

	primitives := 0
	for _, m := range doc.Meshes {
		primitives += len(m.Primitives)
	}
	meshNodes := 0
	for _, n := range doc.Nodes {
		if n != nil && n.Mesh != nil {
			meshNodes++
		}
	}

	fmt.Printf("Document:     %s\n", args[0])
	if doc.Asset.Generator != "" {
		fmt.Printf("Generator:    %s\n", doc.Asset.Generator)
	}
	fmt.Printf("Nodes:        %d (%d with mesh)\n", len(doc.Nodes), meshNodes)
	fmt.Printf("Meshes:       %d (%d primitives)\n", len(doc.Meshes), primitives)
	fmt.Printf("Accessors:    %d\n", len(doc.Accessors))
	fmt.Printf("Buffer views: %d\n", len(doc.BufferViews))
	fmt.Printf("Buffers:      %d\n", len(doc.Buffers))
	fmt.Printf("Cameras:      %d\n", len(doc.Cameras))

	transforms, err := scenegraph.Resolve(doc.Nodes)
	if err != nil {
		fmt.Printf("Hierarchy:    invalid (%v)\n", err)
		return nil
	}
	fmt.Printf("Hierarchy:    %d roots, depth %d\n", len(transforms.Roots()), transforms.MaxDepth())
	fmt.Println()
	printHierarchy(os.Stdout, doc, transforms)
	return nil
}

// printHierarchy lists every node in storage order, indented by depth.
func printHierarchy(w io.Writer, doc *gltf.Document, transforms *scenegraph.Transforms) {
	for i, n := range doc.Nodes {
		name := fmt.Sprintf("node%d", i)
		var tags []string
		if n != nil {
			if n.Name != "" {
				name = n.Name
			}
			if n.Mesh != nil {
				tags = append(tags, fmt.Sprintf("mesh %d", *n.Mesh))
			}
			if n.Camera != nil {
				tags = append(tags, fmt.Sprintf("camera %d", *n.Camera))
			}
		}
		if p, ok := transforms.Parent(i); ok {
			tags = append(tags, fmt.Sprintf("parent %d", p))
		}

		line := fmt.Sprintf("%s[%d] %s", strings.Repeat("  ", transforms.Depth(i)), i, name)
		if len(tags) > 0 {
			line += " (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func cmdWatch(args []string) error {
	cfg, err := setup("watch", args)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Named("watch")

	in, err := resource.NewStore(cfg.Input.BaseDir)
	if err != nil {
		return err
	}
	files, err := inputFiles(in, cfg.Input.File)
	if err != nil {
		return err
	}

	w, err := watch.New(cfg.Watch.Debounce, log)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(files...); err != nil {
		return err
	}

	rebake := func(context.Context) error {
		stats, err := runBake(cfg, logger.Named("bake"))
		if err != nil {
			return err
		}
		printStats(cfg, stats)
		return nil
	}
	if err := rebake(context.Background()); err != nil {
		log.Error("initial bake failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info("watching", zap.Int("files", w.Files()), zap.Duration("debounce", cfg.Watch.Debounce))
	return w.Run(ctx, rebake)
}

// inputFiles lists the manifest and the external buffers it references.
// A manifest that cannot be parsed yet is watched on its own.
func inputFiles(store *resource.Store, name string) ([]string, error) {
	manifest, err := store.Path(name)
	if err != nil {
		return nil, err
	}
	files := []string{manifest}

	doc, err := store.Load(name)
	if err != nil {
		return files, nil
	}
	dir := filepath.Dir(name)
	for _, b := range doc.Buffers {
		if b.URI == "" || strings.HasPrefix(b.URI, "data:") {
			continue
		}
		p, err := store.Path(filepath.Join(dir, b.URI))
		if err != nil {
			continue
		}
		files = append(files, p)
	}
	return files, nil
}
