// Package env reads .env files and resolves settings that may come from the
// process environment.
//
// It provides functionality for:
//   - Loading .env files (KEY=value, quoted values, comments, export prefix)
//   - Resolving the API base URL with flag > environment > .env > config precedence
//   - Expanding ${VAR} references in configured values such as headers
package env
