package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/planbiir/gstat/internal/config"
	"github.com/planbiir/gstat/internal/elevation"
	"github.com/planbiir/gstat/internal/gpx"
	"github.com/planbiir/gstat/internal/kmlexport"
	"github.com/planbiir/gstat/internal/smooth"
	"github.com/planbiir/gstat/internal/stats"
)

const versionText = "gstat v1.0.0 - GPS track statistics and smoothing"

type options struct {
	input        string
	output       string
	kmlOutput    string
	tuningFile   string
	correct      bool
	elevationAPI string
	smoothEle    bool
	smoothTrack  bool
	asJSON       bool
	segments     bool

	stats  stats.Config
	smooth smooth.Config

	// names of flags set on the command line; they win over the tuning file
	explicit map[string]bool
}

func main() {
	opts := options{
		stats:  stats.DefaultConfig(),
		smooth: smooth.DefaultConfig(),
	}

	flag.StringVar(&opts.input, "i", "", "Input GPX file")
	flag.StringVar(&opts.output, "o", "", "Output GPX file (default: <input>_smoothed.gpx when smoothing or correcting)")
	flag.StringVar(&opts.kmlOutput, "kml", "", "Also export the track to this KML file")
	flag.StringVar(&opts.tuningFile, "tuning", "", "JSON tuning file; command line flags take precedence")
	flag.BoolVar(&opts.correct, "correct", false, "Replace elevations with IGN altimetry values")
	flag.StringVar(&opts.elevationAPI, "ele-api", elevation.DefaultBaseURL, "Elevation service endpoint")
	flag.BoolVar(&opts.smoothEle, "smooth-ele", false, "Smooth elevations with a Savitzky-Golay filter")
	flag.BoolVar(&opts.smoothTrack, "smooth-track", false, "Smooth latitude and longitude with a Savitzky-Golay filter")
	flag.IntVar(&opts.smooth.WindowSize, "window", opts.smooth.WindowSize, "Filter window size (odd)")
	flag.IntVar(&opts.smooth.PolyOrder, "order", opts.smooth.PolyOrder, "Filter polynomial order (below window size)")
	flag.Float64Var(&opts.stats.ElevationThreshold, "ele-threshold", opts.stats.ElevationThreshold, "Elevation hysteresis in meters")
	flag.Float64Var(&opts.stats.DistanceThreshold, "dist-threshold", opts.stats.DistanceThreshold, "Minimum distance between points in meters")
	flag.Float64Var(&opts.stats.StoppedSpeed, "stop-speed", opts.stats.StoppedSpeed, "Speed in km/h at or below which you are stopped")
	flag.DurationVar(&opts.stats.MinStopDuration, "min-stop", opts.stats.MinStopDuration, "Shortest pause counted as stopped time")
	flag.BoolVar(&opts.asJSON, "json", false, "Output statistics as JSON")
	flag.BoolVar(&opts.segments, "segments", false, "Also report each segment")
	version := flag.Bool("version", false, "Show version information")

	flag.Usage = func() {
		fmt.Printf("gstat - GPS track statistics and smoothing\n\n")
		fmt.Printf("usage: gstat -i /path/to/file.gpx\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  gstat -i track.gpx\n")
		fmt.Printf("  gstat -i track.gpx -json -segments\n")
		fmt.Printf("  gstat -i track.gpx -smooth-ele -window 11 -order 3\n")
		fmt.Printf("  gstat -i track.gpx -correct -o fixed.gpx -kml fixed.kml\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Println(versionText)
		fmt.Println("https://github.com/planbiir/gstat")
		os.Exit(0)
	}

	if opts.input == "" {
		flag.Usage()
		os.Exit(2)
	}

	opts.explicit = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { opts.explicit[f.Name] = true })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one invocation. Reports go to stdout; progress goes to
// stdout too, except in JSON mode where it moves to stderr.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	progress := stdout
	if opts.asJSON {
		progress = stderr
	}

	if err := applyTuning(&opts); err != nil {
		return err
	}
	if err := opts.stats.Validate(); err != nil {
		return err
	}
	if opts.smoothEle || opts.smoothTrack {
		if err := opts.smooth.Validate(); err != nil {
			return err
		}
	}

	fmt.Fprintf(progress, "📖 Reading GPX file: %s\n", opts.input)
	gpxData, err := gpx.Parse(opts.input)
	if err != nil {
		return fmt.Errorf("reading GPX file: %w", err)
	}
	f, err := gpxData.File()
	if errors.Is(err, gpx.ErrNoPoints) {
		return fmt.Errorf("no GPS points found in %s", opts.input)
	}
	if err != nil {
		return err
	}

	trackCount, segmentCount, pointCount := gpxData.Counts()
	fmt.Fprintf(progress, "📊 Track: %d points across %d tracks, %d segments\n", pointCount, trackCount, segmentCount)

	modified := false
	if opts.correct {
		client := elevation.NewClient(
			elevation.WithBaseURL(opts.elevationAPI),
			elevation.WithLogger(log.New(progress, "", log.LstdFlags)),
		)
		fmt.Fprintf(progress, "⛰️  Correcting elevations\n")
		n, err := elevation.NewCorrector(client).Correct(ctx, f.Points())
		if err != nil {
			return fmt.Errorf("correcting elevations: %w", err)
		}
		fmt.Fprintf(progress, "   %d of %d points updated\n", n, pointCount)
		modified = true
	}

	var channels []smooth.Channel
	if opts.smoothEle {
		channels = append(channels, smooth.Elevation)
	}
	if opts.smoothTrack {
		channels = append(channels, smooth.Latitude, smooth.Longitude)
	}
	if len(channels) > 0 {
		fmt.Fprintf(progress, "〰️  Smoothing %s (window %d, order %d)\n",
			channelNames(channels), opts.smooth.WindowSize, opts.smooth.PolyOrder)
		if err := smooth.File(f, opts.smooth, channels...); err != nil {
			return fmt.Errorf("smoothing track: %w", err)
		}
		modified = true
	}

	report := stats.FileReport(f, opts.stats)
	var segmentReports []stats.Report
	if opts.segments {
		segmentReports = stats.SegmentReports(f, opts.stats)
	}

	if opts.asJSON {
		if err := writeJSON(stdout, report, segmentReports, opts.segments); err != nil {
			return err
		}
	} else {
		printReport(stdout, "Track Statistics", report)
		for i, r := range segmentReports {
			printReport(stdout, fmt.Sprintf("Segment %d", i+1), r)
		}
	}

	if modified || opts.output != "" {
		output := opts.output
		if output == "" {
			output = defaultOutput(opts.input)
		}
		if err := gpxData.Update(f); err != nil {
			return err
		}
		fmt.Fprintf(progress, "💾 Writing track: %s\n", output)
		if err := gpxData.Write(output); err != nil {
			return fmt.Errorf("writing GPX file: %w", err)
		}
	}

	if opts.kmlOutput != "" {
		fmt.Fprintf(progress, "🌍 Writing KML: %s\n", opts.kmlOutput)
		if err := kmlexport.Write(opts.kmlOutput, f, opts.stats); err != nil {
			return fmt.Errorf("writing KML file: %w", err)
		}
	}

	fmt.Fprintf(progress, "✅ Done\n")
	return nil
}

// applyTuning loads the tuning file and re-applies command line flags on top
func applyTuning(opts *options) error {
	if opts.tuningFile == "" {
		return nil
	}
	tuning, err := config.LoadTuning(opts.tuningFile)
	if err != nil {
		return err
	}

	statsCfg, smoothCfg := opts.stats, opts.smooth
	tuning.Apply(&opts.stats, &opts.smooth)

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"ele-threshold", func() { opts.stats.ElevationThreshold = statsCfg.ElevationThreshold }},
		{"dist-threshold", func() { opts.stats.DistanceThreshold = statsCfg.DistanceThreshold }},
		{"stop-speed", func() { opts.stats.StoppedSpeed = statsCfg.StoppedSpeed }},
		{"min-stop", func() { opts.stats.MinStopDuration = statsCfg.MinStopDuration }},
		{"window", func() { opts.smooth.WindowSize = smoothCfg.WindowSize }},
		{"order", func() { opts.smooth.PolyOrder = smoothCfg.PolyOrder }},
	}
	for _, o := range overrides {
		if opts.explicit[o.flag] {
			o.apply()
		}
	}
	return nil
}

func writeJSON(w io.Writer, report stats.Report, segments []stats.Report, withSegments bool) error {
	var v any = report
	if withSegments {
		if segments == nil {
			segments = []stats.Report{}
		}
		v = struct {
			File     stats.Report   `json:"file"`
			Segments []stats.Report `json:"segments"`
		}{report, segments}
	}

	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func printReport(w io.Writer, title string, r stats.Report) {
	fmt.Fprintf(w, "\n📊 %s:\n", title)
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "📏 Distance: %.2f km\n", r.TotalDistance/1000)
	fmt.Fprintf(w, "⛰️  Elevation: +%.0f m / -%.0f m", r.ElevationGain, r.ElevationLoss)
	if r.MinElevation != nil && r.MaxElevation != nil {
		fmt.Fprintf(w, " (min %.0f m, max %.0f m)", *r.MinElevation, *r.MaxElevation)
	}
	fmt.Fprintf(w, "\n")
	if !r.StartTime.IsZero() && !r.EndTime.IsZero() {
		fmt.Fprintf(w, "🕐 Time: %s → %s\n", r.StartTime.Format(time.RFC3339), r.EndTime.Format(time.RFC3339))
		fmt.Fprintf(w, "⏱️  Duration: %v (moving %v, stopped %v)\n", r.Duration, r.MovingTime, r.StoppedTime)
		fmt.Fprintf(w, "⚡ Speed: avg %.1f km/h, max %.1f km/h\n", r.AvgSpeed, r.MaxSpeed)
	}
	if r.MinCoordinates != nil && r.MaxCoordinates != nil {
		fmt.Fprintf(w, "📍 Start: %.5f, %.5f  End: %.5f, %.5f\n", r.StartLat, r.StartLng, r.EndLat, r.EndLng)
		fmt.Fprintf(w, "🗺️  Bounds: %.5f, %.5f → %.5f, %.5f\n",
			r.MinCoordinates.Lat, r.MinCoordinates.Lng, r.MaxCoordinates.Lat, r.MaxCoordinates.Lng)
	}
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}

func channelNames(channels []smooth.Channel) string {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.String()
	}
	return strings.Join(names, ", ")
}

func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "_smoothed" + ext
}
