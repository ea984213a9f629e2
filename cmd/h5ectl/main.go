package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/beam-cloud/h5e/pkg/library"
	"github.com/beam-cloud/h5e/pkg/metrics"
	"github.com/beam-cloud/h5e/pkg/preset"
	"github.com/beam-cloud/h5e/pkg/presetfs"
	"github.com/beam-cloud/h5e/pkg/storage"
	"github.com/beam-cloud/ristretto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultRegion        = "us-east-1"
	defaultMemoryPresets = 128
)

func main() {
	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := preset.SetLogLevel(getEnvString("H5E_LOG_LEVEL", "info")); err != nil {
		log.Fatal().Err(err).Msg("invalid H5E_LOG_LEVEL")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "show":
		showCommand()
	case "list":
		listCommand()
	case "mount":
		mountCommand()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `h5ectl - POD HD preset (.h5e) inspection tool

Usage:
  h5ectl <command> [options]

Commands:
  show         Decode one or more presets and print their settings
  list         Scan a directory of presets and list them
  mount        Mount a directory of presets as a read-only filesystem of decoded documents

Examples:
  # Show a local preset
  h5ectl show ~/presets/clean.h5e

  # Show a preset stored in s3 as JSON, including models of disabled slots
  h5ectl show --format json --all s3://my-bucket/presets/clean.h5e

  # Show a preset pushed to a local registry, without credentials
  h5ectl show --insecure --anonymous oci://localhost:5000/presets/clean:v1

  # List presets that use a wah
  h5ectl list --dir ~/presets --effect Wah

  # Mount a preset library
  h5ectl mount --dir ~/presets --mountpoint /mnt/presets

Environment Variables:
  H5E_LOG_LEVEL          Log level (debug, info, warn, error, disabled; default: info)
  H5E_CACHE_DIR          Directory used to cache presets read from s3
  H5E_S3_ENDPOINT        Custom s3 endpoint (e.g. http://localhost:4566)
  AWS_REGION             s3 region (default: us-east-1)
  AWS_ACCESS_KEY_ID      s3 access key
  AWS_SECRET_ACCESS_KEY  s3 secret key
  H5E_OCI_AUTH           JSON registry credentials keyed by host, * wildcards allowed

`)
}

type showOptions struct {
	Locations []string
	Format    string
	ShowAll   bool
	CacheDir  string
	Region    string
	Endpoint  string
	PathStyle bool

	OCIInsecure  bool
	OCIAnonymous bool
}

func showCommand() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)

	var (
		format      = fs.String("format", "text", "Output format (text, json)")
		showAll     = fs.Bool("all", false, "Print models of disabled slots as well")
		cacheDir    = fs.String("cache-dir", getEnvString("H5E_CACHE_DIR", ""), "Directory used to cache presets read from s3")
		endpoint    = fs.String("s3-endpoint", getEnvString("H5E_S3_ENDPOINT", ""), "Custom s3 endpoint")
		pathStyle   = fs.Bool("s3-path-style", false, "Use path-style s3 addressing")
		insecure    = fs.Bool("insecure", false, "Allow plain HTTP to oci:// registries")
		anonymous   = fs.Bool("anonymous", false, "Pull oci:// presets without credentials")
		showMetrics = fs.Bool("metrics", false, "Log a metrics summary when done")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one preset location is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	opts := showOptions{
		Locations: fs.Args(),
		Format:    *format,
		ShowAll:   *showAll,
		CacheDir:  *cacheDir,
		Region:    getEnvString("AWS_REGION", defaultRegion),
		Endpoint:  *endpoint,
		PathStyle: *pathStyle || *endpoint != "",

		OCIInsecure:  *insecure,
		OCIAnonymous: *anonymous,
	}

	err := showPresets(context.Background(), os.Stdout, opts)
	if *showMetrics {
		metrics.LogMetricsSummary()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to show preset")
	}
}

// showPresets decodes every location in order and writes each one to w. The
// first failure stops processing.
func showPresets(ctx context.Context, w io.Writer, opts showOptions) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("unknown format %q: must be one of: text, json", opts.Format)
	}

	cache, err := storage.NewPresetCache(defaultMemoryPresets)
	if err != nil {
		return fmt.Errorf("could not create preset cache: %w", err)
	}
	defer cache.Close()

	for i, location := range opts.Locations {
		if err := showPreset(ctx, w, cache, location, opts); err != nil {
			return fmt.Errorf("%s: %w", location, err)
		}
		if opts.Format == "text" && i < len(opts.Locations)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

func showPreset(ctx context.Context, w io.Writer, cache *ristretto.Cache[string, []byte], location string, opts showOptions) error {
	storageOpts := storage.PresetStorageOpts{
		Location:    location,
		S3Region:    opts.Region,
		S3Endpoint:  opts.Endpoint,
		S3PathStyle: opts.PathStyle,

		OCIInsecure:  opts.OCIInsecure,
		OCIAnonymous: opts.OCIAnonymous,
	}
	if opts.CacheDir != "" {
		if err := os.MkdirAll(opts.CacheDir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		storageOpts.CachePath = filepath.Join(opts.CacheDir, sanitizeLocation(location))
	}

	source, err := storage.NewPresetStorage(storageOpts)
	if err != nil {
		return err
	}
	defer source.Cleanup()

	data, err := storage.NewCachedPresetStorage(source, cache).ReadPreset(ctx)
	if err != nil {
		return err
	}

	p, err := preset.Load(data)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return preset.WriteJSON(w, p)
	}
	return preset.WriteText(w, p, opts.ShowAll)
}

type listOptions struct {
	Dir         string
	Amp         string
	Effect      string
	Concurrency int
}

func listCommand() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	var (
		dir         = fs.String("dir", "", "Directory to scan for presets (required)")
		amp         = fs.String("amp", "", "Only list presets with an enabled amp of this model")
		effect      = fs.String("effect", "", "Only list presets with an enabled effect of this type")
		concurrency = fs.Int("concurrency", getEnvInt("H5E_CONCURRENCY", 0), "Number of presets decoded at once (default: GOMAXPROCS)")
		showMetrics = fs.Bool("metrics", false, "Log a metrics summary when done")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Parse(os.Args[2:])

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Error: --dir is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	err := listPresets(context.Background(), os.Stdout, listOptions{
		Dir:         *dir,
		Amp:         *amp,
		Effect:      *effect,
		Concurrency: *concurrency,
	})
	if *showMetrics {
		metrics.LogMetricsSummary()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list presets")
	}
}

// listPresets prints one "<name>\t<path>" line per matching preset.
func listPresets(ctx context.Context, w io.Writer, opts listOptions) error {
	lib := library.NewLibrary(library.LibraryOpts{Concurrency: opts.Concurrency})
	if err := lib.Scan(ctx, opts.Dir); err != nil {
		return err
	}

	entries := lib.List()
	if opts.Amp != "" {
		entries = intersect(entries, lib.FilterByAmp(opts.Amp))
	}
	if opts.Effect != "" {
		entries = intersect(entries, lib.FilterByEffect(opts.Effect))
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Preset.Name, e.Path); err != nil {
			return err
		}
	}

	return nil
}

func intersect(entries, keep []*library.Entry) []*library.Entry {
	set := make(map[*library.Entry]struct{}, len(keep))
	for _, e := range keep {
		set[e] = struct{}{}
	}

	var out []*library.Entry
	for _, e := range entries {
		if _, ok := set[e]; ok {
			out = append(out, e)
		}
	}
	return out
}

func mountCommand() {
	fs := flag.NewFlagSet("mount", flag.ExitOnError)

	var (
		dir         = fs.String("dir", "", "Directory to scan for presets (required)")
		mountPoint  = fs.String("mountpoint", "", "Where to mount the filesystem (required)")
		showAll     = fs.Bool("all", false, "Print models of disabled slots as well")
		metricsAddr = fs.String("metrics-addr", "", "Serve /metrics and /health on this address while mounted")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Parse(os.Args[2:])

	if *dir == "" || *mountPoint == "" {
		fmt.Fprintf(os.Stderr, "Error: --dir and --mountpoint are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	lib := library.NewLibrary(library.LibraryOpts{})
	if err := lib.Scan(context.Background(), *dir); err != nil {
		log.Fatal().Err(err).Msg("failed to scan preset directory")
	}

	startServer, serverError, server, err := presetfs.Mount(lib, presetfs.MountOptions{
		MountPoint: *mountPoint,
		ShowAll:    *showAll,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to mount preset library")
	}

	if err := startServer(); err != nil {
		log.Fatal().Err(err).Msg("failed to start fuse server")
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Msgf("%d presets mounted at %s", lib.Len(), *mountPoint)

	select {
	case <-sig:
		log.Info().Msg("unmounting")
		if err := presetfs.Unmount(server, *mountPoint); err != nil {
			log.Fatal().Err(err).Msg("failed to unmount")
		}
		<-serverError
	case err, ok := <-serverError:
		if ok && err != nil {
			log.Fatal().Err(err).Msg("fuse server failed")
		}
	}
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	metricsData := metrics.GlobalMetrics.GetPrometheusMetrics()

	switch r.URL.Query().Get("format") {
	case "prometheus":
		w.Header().Set("Content-Type", "text/plain")
		for key, value := range metricsData {
			fmt.Fprintf(w, "%s %v\n", key, value)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metricsData)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	log.Info().Msgf("starting metrics server on %s", addr)
	log.Info().Msg("endpoints: /metrics, /health")

	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}

// Helper functions

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed := parseInt(value); parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func parseInt(s string) int {
	var result int
	fmt.Sscanf(s, "%d", &result)
	return result
}

func sanitizeLocation(location string) string {
	// Replace invalid filesystem characters
	sanitized := strings.ReplaceAll(location, "://", "_")
	sanitized = strings.ReplaceAll(sanitized, ":", "_")
	sanitized = strings.ReplaceAll(sanitized, "/", "_")
	sanitized = strings.ReplaceAll(sanitized, "@", "_")
	return sanitized
}
