package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/engage"
	"github.com/mathfra-rgb/cancelme-mvp/infra/auth"
	"github.com/mathfra-rgb/cancelme-mvp/infra/config"
	"github.com/mathfra-rgb/cancelme-mvp/infra/editor"
	"github.com/mathfra-rgb/cancelme-mvp/infra/localstore"
	"github.com/mathfra-rgb/cancelme-mvp/infra/logging"
	"github.com/mathfra-rgb/cancelme-mvp/infra/media"
	"github.com/mathfra-rgb/cancelme-mvp/infra/memstore"
	"github.com/mathfra-rgb/cancelme-mvp/infra/supabase"
	"github.com/mathfra-rgb/cancelme-mvp/ranking"
	"github.com/mathfra-rgb/cancelme-mvp/tui"
	"github.com/mathfra-rgb/cancelme-mvp/tui/feed"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	demo       bool
	ephemeral  bool
}

// env is everything a command needs, built once per invocation.
type env struct {
	cfg       config.Config
	kv        app.KV
	store     app.Store
	media     app.MediaService // nil when uploads are unavailable
	engine    *engage.Engine
	composer  *ranking.Composer
	publisher *engage.Publisher
	now       func() time.Time
	close     func()
}

type envOpener func(ctx context.Context, opts rootOptions) (*env, error)

// openEnv loads the config, opens the device store and picks the remote:
// the hosted project when api.base_url is set, the demo store otherwise.
func openEnv(ctx context.Context, opts rootOptions) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logging.Init(cfg.LogFile, cfg.LogLevel)

	var (
		kv      app.KV
		closeKV = func() {}
	)
	if opts.ephemeral {
		kv = localstore.NewMemory()
	} else {
		db, err := localstore.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("device store: %w", err)
		}
		kv = db
		closeKV = func() {
			if err := db.Close(); err != nil {
				logging.Warn("closing device store", "err", err)
			}
		}
	}

	e := &env{cfg: cfg, kv: kv, now: time.Now, close: closeKV}
	if opts.demo || cfg.Demo() {
		demo := memstore.NewDemo(e.now)
		e.store, e.media = demo, demo
		logging.Info("running on the demo store")
	} else {
		keys := auth.Resolve(cfg.APIKey, cfg.APIKeyFile)
		if keys == nil {
			closeKV()
			return nil, errors.New("api.key or api.key_file is required with api.base_url")
		}
		client := supabase.NewClient(cfg.APIBaseURL, keys, cfg.APITimeout)
		e.store = supabase.NewStore(client)
		switch cfg.Media.Backend {
		case config.MediaS3:
			up, err := media.NewS3Uploader(ctx, cfg.Media.S3Region, cfg.Media.Bucket, cfg.Media.PublicBaseURL)
			if err != nil {
				logging.Warn("s3 uploads disabled", "err", err)
			} else {
				e.media = up
			}
		default:
			e.media = supabase.NewStorageService(client, cfg.Media.Bucket)
		}
		logging.Info("connected", "project", cfg.APIBaseURL)
	}

	e.engine = engage.NewEngine(engage.Deps{
		Comments: e.store,
		Reports:  e.store,
		Counters: e.store,
		KV:       kv,
		Limits:   cfg.Limits,
		Policy:   cfg.Moderation,
		Now:      e.now,
	})
	e.composer = ranking.NewComposer(e.store, cfg.PageSize, e.now)
	e.publisher = engage.NewPublisher(e.store, e.media, e.engine.Identity())
	return e, nil
}

func newRootCmd(open envOpener) *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:           "cancelme",
		Short:         "The internet's court of public opinion, in your terminal",
		Long:          "Browse, react to, comment on and report posts. Run without a command for the interactive feed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("the interactive feed needs a terminal; try `cancelme feed`")
			}
			e, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.close()
			return runTUI(e)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cancelme/config.toml)")
	root.PersistentFlags().BoolVar(&opts.demo, "demo", false, "use the built-in demo store")
	root.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep device state in memory for this session only")

	withEnv := func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.close()
			return run(cmd, args, e)
		}
	}

	root.AddCommand(
		newVersionCmd(),
		newFeedCmd(withEnv),
		newCommentsCmd(withEnv),
		newPostCmd(withEnv),
		newReactCmd(withEnv),
		newCommentCmd(withEnv),
		newReportCmd(withEnv),
		newWhoamiCmd(withEnv),
		newNameCmd(withEnv),
	)
	return root
}

func runTUI(e *env) error {
	ui, err := config.LoadUIState(e.kv)
	if err != nil {
		logging.Warn("ui state unavailable", "err", err)
	}

	root := tui.NewApp(tui.Deps{
		Feed: feed.Deps{
			Engine:   e.engine,
			Composer: e.composer,
			Feed:     e.store,
			SiteURL:  e.cfg.SiteURL,
			Now:      e.now,
		},
		Publisher: e.publisher,
		Editor:    editor.NewEnvEditor(),
		KV:        e.kv,
		UI:        ui,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("cancelme: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd(openEnv).ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
