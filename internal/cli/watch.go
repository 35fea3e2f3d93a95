package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// defaultDebounce is how long the watcher waits for a burst of events to
// settle before formatting.
const defaultDebounce = 250 * time.Millisecond

type watchFlags struct {
	formatFlags
	debounce    time.Duration
	skipInitial bool
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-indent templates whenever they change",
		Long: `Watch directories and re-indent templates as they are saved.

All templates under the given paths are formatted once at startup, then each
created or modified template is formatted again after a short quiet period.
Files are always written in place; backups follow the configuration.
Stop with Ctrl-C.

Examples:
  cshtmlfmt watch                 # Watch the current directory
  cshtmlfmt watch Views Pages     # Watch specific directories
  cshtmlfmt watch --skip-initial  # Only format files that change`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &cfg, flags)
		},
	}

	addEngineFlags(cmd.Flags(), &cfg, &flags.formatFlags)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", defaultDebounce, "quiet period before formatting changed files")
	cmd.Flags().BoolVar(&flags.skipInitial, "skip-initial", false, "do not format everything at startup")
	groupFlags(cmd.Flags(), groupMode, "debounce", "skip-initial")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *watchFlags) error {
	applyFormatFlags(cmd, cliCfg, &flags.formatFlags)
	cliCfg.Write = true

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewInteractive()
	if logging.Default().GetLevel() == log.DebugLevel {
		logger.SetLevel(log.DebugLevel)
	}
	ctx = logging.WithLogger(ctx, logger)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	w, err := newWatcher(runOpts, flags.debounce, cmd.OutOrStdout(), colorMode(cmd), logger)
	if err != nil {
		return err
	}
	defer w.close()

	if err := w.addTree(ctx, runOpts.Paths); err != nil {
		return err
	}

	if !flags.skipInitial {
		if err := w.formatAll(ctx); err != nil {
			return err
		}
	}

	logger.Info("watching for changes", "directories", w.dirCount())
	return w.run(ctx)
}

// watcher formats templates as fsnotify reports them changed.
type watcher struct {
	opts     runner.Options
	runner   *runner.Runner
	notify   *fsnotify.Watcher
	debounce time.Duration
	out      io.Writer
	styles   *pretty.Styles
	logger   *log.Logger

	mu   sync.Mutex
	dirs map[string]struct{}

	// formatted is called after each batch; tests use it to synchronize.
	formatted func(*runner.Result)
}

func newWatcher(opts runner.Options, debounce time.Duration, out io.Writer, color string, logger *log.Logger) (*watcher, error) {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = defaultDebounce
	}

	// Format in place; change events for our own writes then find nothing
	// left to do.
	opts.Pipeline.Write = true

	return &watcher{
		opts:     opts,
		runner:   runner.New(),
		notify:   notify,
		debounce: debounce,
		out:      out,
		styles:   pretty.NewStyles(pretty.IsColorEnabled(color, out)),
		logger:   logger,
		dirs:     make(map[string]struct{}),
	}, nil
}

func (w *watcher) close() {
	if err := w.notify.Close(); err != nil {
		w.logger.Debug("close watcher", logging.FieldError, err)
	}
}

func (w *watcher) dirCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

func (w *watcher) watching(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.dirs[dir]
	return ok
}

// addTree registers every directory a run over paths would visit.
func (w *watcher) addTree(ctx context.Context, paths []string) error {
	opts := w.opts
	opts.Paths = paths

	dirs, err := runner.Directories(ctx, opts)
	if err != nil {
		return fmt.Errorf("list directories: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, dir := range dirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.notify.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
		w.logger.Debug("watching directory", logging.FieldPath, dir)
	}

	return nil
}

// formatAll formats every template under the watched paths once.
func (w *watcher) formatAll(ctx context.Context) error {
	result, err := w.runner.Run(ctx, w.opts)
	if err != nil {
		return errors.Join(errors.New("initial format failed"), err)
	}
	w.report(result)
	fmt.Fprint(w.out, w.styles.FormatSummaryOneLine(result.Stats, true))
	return nil
}

// run processes events until ctx is done or the watcher is closed.
func (w *watcher) run(ctx context.Context) error {
	pending := make(map[string]struct{})

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.notify.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event, pending)
			if len(pending) > 0 {
				timer.Reset(w.debounce)
				fire = timer.C
			}

		case err, ok := <-w.notify.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.FieldError, err)

		case <-fire:
			fire = nil
			files := make([]string, 0, len(pending))
			for path := range pending {
				files = append(files, path)
			}
			clear(pending)
			slices.Sort(files)

			result, err := w.runner.RunFiles(ctx, files, w.opts)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("format failed", logging.FieldError, err)
				continue
			}
			w.report(result)
			if w.formatted != nil {
				w.formatted(result)
			}
		}
	}
}

// handle queues templates touched by event and watches new directories.
func (w *watcher) handle(ctx context.Context, event fsnotify.Event, pending map[string]struct{}) {
	w.logger.Debug("event", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(ctx, []string{event.Name}); err != nil {
				w.logger.Warn("cannot watch new directory", logging.FieldPath, event.Name, logging.FieldError, err)
			}
			return
		}
	}

	if runner.Accepts(w.opts, event.Name) {
		pending[event.Name] = struct{}{}
	}
}

// report logs what happened to each file of a batch.
func (w *watcher) report(result *runner.Result) {
	for _, file := range result.Files {
		path := relativePath(w.opts.WorkingDir, file.Path)

		switch {
		case file.Error != nil:
			if errors.Is(file.Error, pipeline.ErrFileNotFound) {
				w.logger.Debug("file vanished before formatting", logging.FieldPath, path)
				continue
			}
			w.logger.Error("cannot format", logging.FieldPath, path, logging.FieldError, file.Error)
		case file.Result == nil:
		case file.Result.Skipped:
			w.logger.Debug("skipped", logging.FieldPath, path, logging.FieldReason, file.Result.SkipReason)
		case file.Result.Written:
			w.logger.Info("formatted",
				logging.FieldPath, path,
				logging.FieldChanges, len(file.Result.Changes),
				logging.FieldInserted, file.Result.Inserted,
			)
		}
	}
}
