package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/empoweryouth/apiprobe/packages/core/config"
	"github.com/empoweryouth/apiprobe/packages/core/env"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/coverage"
	"github.com/empoweryouth/apiprobe/packages/http"
	"github.com/empoweryouth/apiprobe/packages/logging"
	"github.com/empoweryouth/apiprobe/packages/mock"
	"github.com/empoweryouth/apiprobe/packages/notify"
	"github.com/empoweryouth/apiprobe/packages/output"
	"github.com/empoweryouth/apiprobe/packages/report"
	"github.com/empoweryouth/apiprobe/packages/suite"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the EmpowerYouth scenario plan",
	Long: `Run every EmpowerYouth scenario against a live API, high priority
tier first, and print a summary. A fresh user is registered on each run.

The base URL is taken from --base-url, then APIPROBE_BASE_URL in the
environment, then APIPROBE_BASE_URL in the .env file, then baseUrl in
.apiprobe.json/.yaml/.yml, then http://localhost:3000/api.

Exit codes: 0 when no scenario failed, 1 when any failed, 3 on config errors.

Examples:
  apiprobe run
  apiprobe run --base-url https://staging.example.com/api
  apiprobe run -o junit --output-file report.xml
  apiprobe run --watch -v
  apiprobe run --coverage
  apiprobe run --notify slack --notify-on recovery --slack-webhook $SLACK_WEBHOOK`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	defaultEnvFile = ".env"
)

var (
	baseURLFlag    string
	configFlag     string
	envFileFlag    string
	outputFlag     string
	outputFileFlag string
	timeoutFlag    time.Duration
	rateFlag       float64
	insecureFlag   bool
	proxyFlag      string
	noColorFlag    bool
	verboseFlag    bool
	watchFlag      bool
	coverageFlag   bool

	// Notification flags
	notifyFlag       string
	notifyOnFlag     string
	slackWebhookFlag string
	slackChannelFlag string
	teamsWebhookFlag string
)

func init() {
	runCmd.Flags().StringVarP(&baseURLFlag, "base-url", "u", "", "API base URL (env: "+env.BaseURLVar+")")
	runCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: .apiprobe.json, .apiprobe.yaml or .apiprobe.yml)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", defaultEnvFile, "Path to .env file")

	// Output flags
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: "+strings.Join(output.Formats, ", "))
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log every request as a curl command with its status and duration")

	// Execution flags
	runCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Request timeout (default 30s)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second (0 = unlimited)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run when the config or .env file changes")
	runCmd.Flags().BoolVar(&coverageFlag, "coverage", false, "Report which API endpoints the run exercised")

	// Network flags
	runCmd.Flags().StringVar(&proxyFlag, "proxy", "", "Proxy URL for HTTP requests")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")

	// Notification flags
	runCmd.Flags().StringVar(&notifyFlag, "notify", "", "Notification services: slack, teams (comma-separated)")
	runCmd.Flags().StringVar(&notifyOnFlag, "notify-on", "", "When to notify: always, failure, success, recovery (default failure)")
	runCmd.Flags().StringVar(&slackWebhookFlag, "slack-webhook", os.Getenv("SLACK_WEBHOOK"), "Slack webhook URL (env: SLACK_WEBHOOK)")
	runCmd.Flags().StringVar(&slackChannelFlag, "slack-channel", "", "Slack channel override")
	runCmd.Flags().StringVar(&teamsWebhookFlag, "teams-webhook", os.Getenv("TEAMS_WEBHOOK"), "Microsoft Teams webhook URL (env: TEAMS_WEBHOOK)")
}

// settings is everything one run needs, resolved from config file, .env,
// environment and flags.
type settings struct {
	cfg        *config.Config
	baseURL    string
	source     env.Source
	configPath string
	envFile    string
	resolver   *env.Resolver
}

// flagConfig turns the flags the user actually set into a Config layer.
func flagConfig(cmd *cobra.Command) *config.Config {
	flags := cmd.Flags()
	c := &config.Config{
		Proxy:  proxyFlag,
		Output: outputFlag,
	}
	if flags.Changed("timeout") {
		c.Timeout = int(timeoutFlag.Milliseconds())
	}
	if flags.Changed("rate") {
		c.RateLimit = rateFlag
	}
	if flags.Changed("insecure") {
		c.ValidateSSL = config.BoolPtr(!insecureFlag)
	}
	if flags.Changed("verbose") {
		c.Verbose = config.BoolPtr(verboseFlag)
	}
	if flags.Changed("no-color") {
		c.NoColor = config.BoolPtr(noColorFlag)
	}
	return c
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	s := &settings{configPath: configFlag, envFile: envFileFlag}
	if s.configPath == "" {
		s.configPath = config.FindConfigFile(".")
	}

	fileConfig := config.DefaultConfig()
	if s.configPath != "" {
		var err error
		if fileConfig, err = config.LoadConfig(s.configPath); err != nil {
			return nil, err
		}
	}
	s.cfg = fileConfig.Merge(flagConfig(cmd))

	dotenv, err := env.LoadDotEnv(s.envFile)
	switch {
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("env-file"):
		dotenv = nil
	case err != nil:
		return nil, err
	}

	s.resolver = env.NewResolver(dotenv)
	s.resolver.SetWarnFunc(func(format string, args ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
	})
	s.baseURL, s.source = s.resolver.BaseURL(baseURLFlag, s.cfg.BaseURL)
	s.cfg.BaseURL = s.baseURL
	s.cfg.Headers = s.resolver.ExpandAll(s.cfg.Headers)

	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings (base URL from %s): %w", s.source, err)
	}
	if _, err := output.New(s.cfg.Output, io.Discard); err != nil {
		return nil, err
	}
	return s, nil
}

// buildNotifier returns nil when no --notify service is requested.
func buildNotifier(cfg *config.Config) (*notify.Manager, error) {
	services := notifyFlag
	webhooks := config.NotifyConfig{On: notifyOnFlag, SlackWebhook: slackWebhookFlag, SlackChannel: slackChannelFlag, TeamsWebhook: teamsWebhookFlag}
	if n := cfg.Notify; n != nil {
		if webhooks.On == "" {
			webhooks.On = n.On
		}
		if webhooks.SlackWebhook == "" {
			webhooks.SlackWebhook = n.SlackWebhook
		}
		if webhooks.SlackChannel == "" {
			webhooks.SlackChannel = n.SlackChannel
		}
		if webhooks.TeamsWebhook == "" {
			webhooks.TeamsWebhook = n.TeamsWebhook
		}
	}
	if services == "" {
		return nil, nil
	}

	notifyOn, err := notify.ParseNotifyOn(webhooks.On)
	if err != nil {
		return nil, err
	}

	manager := notify.NewManager(notifyOn)
	for _, service := range strings.Split(services, ",") {
		switch strings.ToLower(strings.TrimSpace(service)) {
		case "slack":
			if webhooks.SlackWebhook == "" {
				return nil, fmt.Errorf("--slack-webhook is required when using --notify slack")
			}
			var opts []notify.SlackOption
			if webhooks.SlackChannel != "" {
				opts = append(opts, notify.WithSlackChannel(webhooks.SlackChannel))
			}
			manager.AddNotifier(notify.NewSlackNotifier(webhooks.SlackWebhook, opts...))
		case "teams":
			if webhooks.TeamsWebhook == "" {
				return nil, fmt.Errorf("--teams-webhook is required when using --notify teams")
			}
			manager.AddNotifier(notify.NewTeamsNotifier(webhooks.TeamsWebhook))
		case "":
		default:
			return nil, fmt.Errorf("unknown notification service %q (want slack or teams)", service)
		}
	}
	return manager, nil
}

// runSuite executes the plan once with a fresh session and writes the report
// to w.
func runSuite(ctx context.Context, s *settings, w io.Writer, stderr io.Writer, notifier *notify.Manager) (report.Summary, error) {
	cfg := s.cfg
	formatter, err := output.New(cfg.Output, w,
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
	if err != nil {
		return report.Summary{}, err
	}

	logger := logging.NullLogger()
	if cfg.GetVerbose() {
		logger = logging.New(stderr)
	}

	state := session.New()
	latency := report.NewLatency()
	aggregator := report.NewAggregator(latency)

	client := http.NewClient(s.baseURL,
		http.WithTimeout(cfg.TimeoutDuration()),
		http.WithValidateSSL(cfg.GetValidateSSL()),
		http.WithProxy(cfg.Proxy),
		http.WithDefaultHeaders(cfg.Headers),
		http.WithRateLimit(cfg.RateLimit),
		http.WithTokenSource(state),
		http.WithRecorder(latency),
		http.WithLogger(logger),
	)
	logger.Printf("base URL %s (from %s)", s.baseURL, s.source)

	var exec runner.Executor = client
	var tracker *coverage.Tracker
	if coverageFlag {
		tracker = coverage.Track(client)
		exec = tracker
	}

	formatter.FormatHeader(version, s.baseURL)
	r := runner.NewRunner(exec, state,
		runner.WithListener(aggregator.Add),
		runner.WithListener(formatter.FormatScenario),
	)
	r.Run(ctx, suite.DefaultPlan())
	summary := aggregator.Summary()

	if notifier != nil {
		if err := notifier.Notify(notify.NewRunSummary(s.baseURL, summary, aggregator.Scenarios())); err != nil {
			formatter.FormatError(fmt.Errorf("failed to send notification: %w", err))
			fmt.Fprintf(stderr, "warning: failed to send notification: %v\n", err)
		}
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(summary, aggregator.Outcomes()); err != nil {
			return summary, fmt.Errorf("error writing output: %w", err)
		}
	}

	if tracker != nil {
		writeCoverage(cfg.Output, w, stderr, tracker.Requests())
	}
	return summary, nil
}

// apiEndpoints is the EmpowerYouth route table, as modelled by the mock API.
func apiEndpoints() []coverage.Endpoint {
	routes := mock.NewServer().Routes()
	endpoints := make([]coverage.Endpoint, len(routes))
	for i, route := range routes {
		endpoints[i] = coverage.Endpoint{Method: route.Method, Path: route.Path, Protected: route.Protected}
	}
	return endpoints
}

// writeCoverage appends the coverage report to console output; machine-readable
// formats keep their output clean and get it on stderr.
func writeCoverage(format string, w, stderr io.Writer, requests []coverage.ExecutedRequest) {
	report := coverage.NewAnalyzer(apiEndpoints()...).Analyze(requests)
	if format == "" || format == "console" {
		fmt.Fprint(w, report.FormatConsole())
		return
	}
	fmt.Fprint(stderr, report.FormatConsole())
}

// openOutput returns the report destination; the file is truncated on every run.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if outputFileFlag == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(outputFileFlag)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func runOnce(ctx context.Context, cmd *cobra.Command, s *settings, notifier *notify.Manager) (report.Summary, error) {
	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return report.Summary{}, withExitCode(ExitConfigError, err)
	}
	defer closeOutput()
	return runSuite(ctx, s, w, cmd.ErrOrStderr(), notifier)
}

func runCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	notifier, err := buildNotifier(s.cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived interrupt, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := runOnce(ctx, cmd, s, notifier)
	if err != nil {
		return err
	}

	if !watchFlag {
		if summary.Failed > 0 {
			return withExitCode(ExitTestFailure, nil)
		}
		return nil
	}

	return watch(ctx, cmd, s, notifier)
}

// watch re-runs the plan whenever the config or .env file changes. Settings
// are reloaded before each run; a broken file is reported and the previous
// settings are kept.
func watch(ctx context.Context, cmd *cobra.Command, s *settings, notifier *notify.Manager) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets := watchTargets(s)
	dirs := make(map[string]bool)
	for target := range targets {
		dir := filepath.Dir(target)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", strings.Join(sortedKeys(targets), ", "))

	var debounce <-chan time.Time
	var changed string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[absPath(event.Name)] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			changed = event.Name
			debounce = time.After(WatchDebounceDelay)

		case <-debounce:
			debounce = nil
			fmt.Fprintf(out, "\nFile changed: %s\nRe-running scenarios...\n\n", changed)

			if next, err := loadSettings(cmd); err != nil {
				fmt.Fprintf(out, "warning: keeping previous settings: %v\n", err)
			} else {
				s = next
			}
			if _, err := runOnce(ctx, cmd, s, notifier); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watcher error: %v\n", err)
		}
	}
}

// watchTargets lists the absolute paths of every file that feeds settings,
// including config names that do not exist yet.
func watchTargets(s *settings) map[string]bool {
	targets := map[string]bool{absPath(s.envFile): true}
	if s.configPath != "" {
		targets[absPath(s.configPath)] = true
		return targets
	}
	for _, name := range config.ConfigFilenames {
		targets[absPath(name)] = true
	}
	return targets
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, filepath.Base(k))
	}
	slices.Sort(keys)
	return keys
}
