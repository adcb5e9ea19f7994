// Command stepcount estimates the number of steps in an accelerometer
// recording, read either from the UCI HAR dataset or from a CSV file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gonum.org/v1/plot"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/config"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/dataset"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/fsutil"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/monitoring"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/report"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/stepcount"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/version"
)

// Config holds the command-line configuration.
type Config struct {
	HARRoot  string
	Split    string
	Subject  int
	Activity int

	CSVFile    string
	SampleRate float64

	TuningFile string

	PlotFile string
	HTMLFile string
	JSONFile string

	Verbose     bool
	ShowVersion bool
}

func main() {
	env, err := config.LoadEnv(".env")
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	cfg, err := parseFlags(os.Args[1:], env)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	if cfg.ShowVersion {
		fmt.Println("stepcount", version.String())
		return
	}

	if err := run(cfg, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("Step count failed: %v", err)
	}
}

func parseFlags(args []string, env *config.Env) (Config, error) {
	cfg := Config{}

	fs := flag.NewFlagSet("stepcount", flag.ContinueOnError)
	fs.StringVar(&cfg.HARRoot, "har", env.HARRoot, "Root of the UCI HAR dataset (contains train/ and test/)")
	fs.StringVar(&cfg.Split, "split", env.Split, "Dataset split: train or test")
	fs.IntVar(&cfg.Subject, "subject", env.Subject, "Subject ID (1-30)")
	fs.IntVar(&cfg.Activity, "activity", env.Activity, "Activity ID (1=WALKING ... 6=LAYING)")
	fs.StringVar(&cfg.CSVFile, "csv", "", "CSV recording with x, y, z columns (overrides -har)")
	fs.Float64Var(&cfg.SampleRate, "fs", env.SampleRate, "Sampling rate of the CSV recording in Hz")
	fs.StringVar(&cfg.TuningFile, "tuning", env.Tuning, "Tuning config JSON file")
	fs.StringVar(&cfg.PlotFile, "plot", "", "Write a chart to this file (.png, .svg or .pdf)")
	fs.StringVar(&cfg.HTMLFile, "html", "", "Write an interactive HTML chart to this file")
	fs.StringVar(&cfg.JSONFile, "json", "", "Write a JSON run summary to this file")
	fs.BoolVar(&cfg.Verbose, "verbose", env.Verbose, "Enable verbose logging")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}

func run(cfg Config, fsys fsutil.FileSystem, stdout io.Writer) error {
	monitoring.SetVerbose(cfg.Verbose)

	tuning := config.DefaultTuningConfig()
	if cfg.TuningFile != "" {
		var err error
		if tuning, err = config.LoadTuningConfig(cfg.TuningFile); err != nil {
			return err
		}
	}
	opts := tuning.Options()

	rec, err := loadRecording(cfg, fsys)
	if err != nil {
		return err
	}
	monitoring.Debugf("loaded %s", rec)

	var (
		res *stepcount.Result
		p   *plot.Plot
	)
	start := report.Clock.Now()
	if cfg.PlotFile != "" {
		res, p, err = stepcount.CountWithChart(rec.X, rec.Y, rec.Z, rec.SampleRate, opts)
	} else {
		res, err = stepcount.Count(rec.X, rec.Y, rec.Z, rec.SampleRate, opts)
	}
	if err != nil {
		return err
	}
	elapsed := report.Clock.Since(start)
	monitoring.Debugf("counted %d steps in %s", res.Steps, elapsed)

	fmt.Fprintf(stdout, "Estimated number of steps: %d\n", res.Steps)

	w := report.NewWriter(fsys)
	if p != nil {
		if err := w.SavePlot(p, cfg.PlotFile); err != nil {
			return err
		}
		log.Printf("Chart written to: %s", cfg.PlotFile)
	}
	if cfg.HTMLFile != "" {
		if err := w.SaveHTML(res, rec.Source, cfg.HTMLFile); err != nil {
			return err
		}
		log.Printf("Interactive chart written to: %s", cfg.HTMLFile)
	}
	if cfg.JSONFile != "" {
		summary := report.NewSummary(rec.Source, res, opts)
		summary.ProcessingTimeMs = elapsed.Milliseconds()
		if err := w.SaveSummary(summary, cfg.JSONFile); err != nil {
			return err
		}
		log.Printf("Summary written to: %s", cfg.JSONFile)
	}
	return nil
}

func loadRecording(cfg Config, fsys fsutil.FileSystem) (*dataset.Recording, error) {
	if cfg.CSVFile != "" {
		return dataset.LoadCSV(fsys, cfg.CSVFile, cfg.SampleRate)
	}
	return dataset.LoadHAR(fsys, dataset.HARConfig{
		Root:       cfg.HARRoot,
		Split:      cfg.Split,
		SubjectID:  cfg.Subject,
		ActivityID: dataset.Activity(cfg.Activity),
	})
}
