// visient is an operational CLI for the Visient platform: concept and geo
// search, app management, input upload.
//
// Usage:
//
//	visient search -user alice -app demo -concept dog
//	visient apps -user alice list
//	visient upload -user alice -app demo -kind image -url https://... -labels dog,pet
//
// Configuration comes from config/<env>.yaml (environment selected by
// VISIENT_ENV), overridden by VISIENT_API_KEY and flags. Results print as
// JSON on stdout; logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	visient "github.com/visient/visient-go"
	"github.com/visient/visient-go/api"
	"github.com/visient/visient-go/internal/config"
	logpkg "github.com/visient/visient-go/internal/logger"
	"github.com/visient/visient-go/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	env := config.GetEnv()
	cfg, err := loadConfig(env)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		log.Fatal("create logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("visient CLI",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("base_url", cfg.API.BaseURL),
	)

	var runErr error
	switch cmd := os.Args[1]; cmd {
	case "search":
		runErr = runSearch(ctx, cfg, logger, os.Args[2:])
	case "apps":
		runErr = runApps(ctx, cfg, logger, os.Args[2:])
	case "upload":
		runErr = runUpload(ctx, cfg, logger, os.Args[2:])
	case "version":
		fmt.Printf("visient %s (%s)\n", version.Version, version.Commit)
	default:
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		cancel()
		log.Fatal(runErr)
	}
}

// loadConfig reads the environment config. A missing config file falls back
// to defaults so the CLI can run on env vars and flags alone.
func loadConfig(env string) (config.Config, error) {
	cfg, err := config.Load(env)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return config.Config{}, err
		}
		cfg = config.Default()
	}
	if key := os.Getenv("VISIENT_API_KEY"); key != "" {
		cfg.API.APIKey = key
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*visient.Client, error) {
	return visient.New(
		visient.WithAPIKey(cfg.API.APIKey),
		visient.WithBaseURL(cfg.API.BaseURL),
		visient.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second),
	)
}

// resolveScope overlays flag values on the configured identity.
func resolveScope(cfg config.Config, user, app string) (string, string, error) {
	if user == "" {
		user = cfg.API.UserID
	}
	if app == "" {
		app = cfg.API.AppID
	}
	if user == "" {
		return "", "", fmt.Errorf("user ID required (flag -user or config api.user_id)")
	}
	return user, app, nil
}

func runSearch(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	user := fs.String("user", "", "user ID (default: config api.user_id)")
	app := fs.String("app", "", "app ID (default: config api.app_id)")
	text := fs.String("text", "", "rank by text similarity")
	concept := fs.String("concept", "", "filter by concept name")
	topK := fs.Int("top-k", 0, "hits per page (default: config search.top_k)")
	metric := fs.String("metric", "", "distance metric: cosine or euclidean")
	_ = fs.Parse(args)

	uid, aid, err := resolveScope(cfg, *user, *app)
	if err != nil {
		return err
	}
	if aid == "" {
		return fmt.Errorf("app ID required (flag -app or config api.app_id)")
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	k := *topK
	if k <= 0 {
		k = cfg.Search.TopK
	}
	m := *metric
	if m == "" {
		m = cfg.Search.Metric
	}

	search, err := client.NewSearch(uid, aid,
		visient.WithTopK(k),
		visient.WithMetric(visient.Metric(m)),
	)
	if err != nil {
		return err
	}

	var ranks, filters []visient.QueryItem
	if *text != "" {
		ranks = append(ranks, visient.QueryItem{"text_raw": *text})
	}
	if *concept != "" {
		filters = append(filters, visient.QueryItem{
			"concepts": []any{map[string]any{"name": *concept, "value": 1}},
		})
	}
	if len(ranks) == 0 && len(filters) == 0 {
		ranks = append(ranks, visient.QueryItem{})
	}

	seq, err := search.Query(ctx, ranks, filters)
	if err != nil {
		return err
	}

	var hits []*api.Hit
	for page, err := range seq {
		if err != nil {
			return err
		}
		logger.Debug("page fetched",
			zap.Int("page", page.Number),
			zap.Int("hits", len(page.Hits)),
		)
		hits = append(hits, page.Hits...)
	}
	logger.Info("search done", zap.Int("hits", len(hits)))
	return printJSON(hits)
}

func runApps(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("apps", flag.ExitOnError)
	user := fs.String("user", "", "user ID (default: config api.user_id)")
	_ = fs.Parse(args)

	uid, _, err := resolveScope(cfg, *user, "")
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	apps := client.Apps(uid)

	verb := fs.Arg(0)
	if verb == "" {
		verb = "list"
	}
	switch verb {
	case "list":
		listed, err := apps.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(listed)
	case "create":
		id := fs.Arg(1)
		if id == "" {
			return fmt.Errorf("usage: visient apps create <app-id>")
		}
		app, err := apps.Create(ctx, id)
		if err != nil {
			return err
		}
		logger.Info("app created", zap.String("app", id))
		return printJSON(app)
	case "get":
		id := fs.Arg(1)
		if id == "" {
			return fmt.Errorf("usage: visient apps get <app-id>")
		}
		app, err := apps.Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(app)
	case "delete":
		id := fs.Arg(1)
		if id == "" {
			return fmt.Errorf("usage: visient apps delete <app-id>")
		}
		if err := apps.Delete(ctx, id); err != nil {
			return err
		}
		logger.Info("app deleted", zap.String("app", id))
		return nil
	default:
		return fmt.Errorf("unknown apps action %q (use list, create, get, delete)", verb)
	}
}

func runUpload(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	user := fs.String("user", "", "user ID (default: config api.user_id)")
	app := fs.String("app", "", "app ID (default: config api.app_id)")
	id := fs.String("id", "", "input ID (default: generated)")
	kindFlag := fs.String("kind", "image", "input kind: image, text, video, audio")
	urlFlag := fs.String("url", "", "input URL")
	file := fs.String("file", "", "input file path")
	labels := fs.String("labels", "", "comma-separated concept labels")
	_ = fs.Parse(args)

	uid, aid, err := resolveScope(cfg, *user, *app)
	if err != nil {
		return err
	}
	if aid == "" {
		return fmt.Errorf("app ID required (flag -app or config api.app_id)")
	}
	kind, err := parseKind(*kindFlag)
	if err != nil {
		return err
	}
	if (*urlFlag == "") == (*file == "") {
		return fmt.Errorf("exactly one of -url or -file required")
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	inputs := client.Inputs(uid, aid)

	var opts []visient.InputOption
	if *labels != "" {
		opts = append(opts, visient.WithLabels(strings.Split(*labels, ",")...))
	}

	var input *api.Input
	if *urlFlag != "" {
		input = inputs.FromURL(*id, kind, *urlFlag, opts...)
	} else {
		raw, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read %s: %w", *file, err)
		}
		input = inputs.FromBytes(*id, kind, raw, opts...)
	}

	uploaded, err := inputs.Upload(ctx, input)
	if err != nil {
		return err
	}
	logger.Info("inputs uploaded", zap.Int("count", len(uploaded)))
	return printJSON(uploaded)
}

func parseKind(s string) (visient.InputKind, error) {
	switch kind := visient.InputKind(s); kind {
	case visient.InputImage, visient.InputText, visient.InputVideo, visient.InputAudio:
		return kind, nil
	}
	return "", fmt.Errorf("unknown input kind %q (use image, text, video, audio)", s)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `visient %s — Visient platform CLI

Usage:
  visient search [-user U] [-app A] [-text T] [-concept C] [-top-k N] [-metric M]
  visient apps   [-user U] list|create|get|delete [app-id]
  visient upload [-user U] [-app A] -kind K (-url URL | -file PATH) [-labels a,b]
  visient version

Environment:
  VISIENT_ENV      config environment: local, dev, prod (default: local)
  VISIENT_API_KEY  platform API key (overrides config)
`, version.Version)
}
