package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/goatfiles/wallpapers"
	"github.com/goatfiles/wallpapers/internal/config"
	"github.com/goatfiles/wallpapers/internal/utils"
	"github.com/goatfiles/wallpapers/pkg/geometry"
)

func main() {
	log.SetFlags(0)

	var path, ratioFlag, cfgPath string
	var margin float64
	var quality, workers int
	var verbose, dryRun, smart, initConfig, showVersion bool

	flag.StringVar(&path, "path", "", "directory of images to normalize in place")
	flag.StringVar(&ratioFlag, "ratio", "16:9", "target aspect ratio as W:H")
	flag.Float64Var(&margin, "margin", 0.17778, "tolerance below which images are resized instead of cropped")
	flag.IntVar(&quality, "quality", 95, "JPEG/WebP output quality (1-100)")
	flag.IntVar(&workers, "workers", 1, "number of images transformed concurrently")
	flag.BoolVar(&verbose, "verbose", false, "also report images that are left untouched")
	flag.BoolVar(&dryRun, "dry-run", false, "report what would change without writing anything")
	flag.BoolVar(&smart, "smart", false, "anchor crops on the most interesting region instead of the center")
	flag.StringVar(&cfgPath, "config", "", "config file path (default "+config.GetConfigPath()+")")
	flag.BoolVar(&initConfig, "init-config", false, "write the current settings to the config file and exit")
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(wallpapers.GetVersion())
		return
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(cfg, ratioFlag, margin, quality, workers, smart, verbose)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if initConfig {
		target := cfgPath
		if target == "" {
			target = config.GetConfigPath()
		}
		if err := cfg.SaveToFile(target); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", target)
		return
	}

	if path == "" {
		log.Fatalf("usage: %s -path DIR [-ratio W:H] [-margin 0.18] [-verbose] [-dry-run] [-smart] [-workers N]",
			filepath.Base(os.Args[0]))
	}

	ratio, err := geometry.ParseRatio(cfg.Ratio)
	if err != nil {
		log.Fatal(err)
	}

	n, err := wallpapers.NewWithOptions(wallpapers.Options{
		Ratio:   ratio,
		Margin:  cfg.Margin,
		Quality: cfg.Quality,
		Workers: cfg.Workers,
		Smart:   cfg.Smart,
		DryRun:  dryRun,
	})
	if err != nil {
		log.Fatal(err)
	}

	var bar *progressbar.ProgressBar
	n.OnLoad = func(loaded, total int, name string) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "loading images")
		}
		_ = bar.Add(1)
	}
	n.OnResult = func(r wallpapers.Result) {
		report(r, cfg.Verbose, dryRun)
	}

	summary, err := n.Run(context.Background(), path)
	if err != nil {
		log.Fatal(err)
	}

	printSummary(summary, dryRun)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// loadConfig reads the config file. A missing file is only an error when it
// was named explicitly; the default location silently falls back to the
// built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		path = config.GetConfigPath()
	}
	if !explicit && !utils.FileExists(path) {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cfg *config.Config, ratio string, margin float64, quality, workers int, smart, verbose bool) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ratio":
			cfg.Ratio = ratio
		case "margin":
			cfg.Margin = margin
		case "quality":
			cfg.Quality = quality
		case "workers":
			cfg.Workers = workers
		case "smart":
			cfg.Smart = smart
		case "verbose":
			cfg.Verbose = verbose
		}
	})
}

// report prints one line per image, tagged by what happened to it.
func report(r wallpapers.Result, verbose, dryRun bool) {
	resizing, cropping := "resizing", "cropping"
	if dryRun {
		resizing, cropping = "would resize", "would crop"
	}

	switch {
	case r.Err != nil:
		color.Red("[ERROR] %s: %v", r.Name, r.Err)
	case r.Outcome == geometry.Conforming:
		if verbose {
			color.Green("[OK...] nothing to do for %s", r.Name)
		}
	case r.Outcome == geometry.Resizable:
		color.Yellow("[WARN.] %s %s from %s to %s", resizing, r.Name, r.Shape, r.Target)
	default:
		color.Red("[ERROR] %s %s from %s to %s", cropping, r.Name, r.Shape, r.Target)
	}
}

func printSummary(s *wallpapers.Summary, dryRun bool) {
	fmt.Printf("\n%d images: %d untouched, %d resized, %d cropped, %d failed\n",
		s.Total, s.Conforming, s.Resized, s.Cropped, s.Failed)
	if !dryRun && s.Written > 0 {
		fmt.Printf("%s written\n", utils.FormatFileSize(s.Written))
	}
}
