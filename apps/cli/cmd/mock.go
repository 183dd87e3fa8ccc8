package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/empoweryouth/apiprobe/packages/logging"
	"github.com/empoweryouth/apiprobe/packages/mock"
)

var (
	mockPortFlag    int
	mockDelayFlag   string
	mockPrefixFlag  string
	mockVerboseFlag bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Start an in-memory EmpowerYouth API",
	Long: `Start an HTTP server that behaves like the EmpowerYouth backend:
registration, bearer-token auth, career assessment, dashboard, chat, jobs,
courses and applications, all kept in memory.

Examples:
  apiprobe mock
  apiprobe mock --port 3000 --delay 100ms
  apiprobe mock --verbose

Then, in another terminal:
  apiprobe run --base-url http://localhost:3000/api`,
	Args: cobra.NoArgs,
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 3000, "Port to run the mock server on")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().StringVar(&mockPrefixFlag, "prefix", mock.DefaultPrefix, "Path prefix the API is mounted under")
	mockCmd.Flags().BoolVarP(&mockVerboseFlag, "verbose", "v", false, "Log every request")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return withExitCode(ExitConfigError, fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err))
		}
	}

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithPrefix(mockPrefixFlag),
		mock.WithVerbose(mockVerboseFlag),
		mock.WithLogger(logging.New(cmd.ErrOrStderr())),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d routes\n", len(server.Routes()))

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down mock server...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return server.StartWithContext(ctx)
}
