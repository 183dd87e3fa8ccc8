package cmd

// Exit codes for the apiprobe CLI
const (
	// ExitSuccess indicates no scenario failed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more scenarios failed
	ExitTestFailure = 1

	// ExitConfigError indicates an unusable config file, .env file or flag value
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
