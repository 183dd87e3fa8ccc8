package env

import (
	"os"
	"regexp"
	"sync"
)

// BaseURLVar overrides the configured base URL when set.
const BaseURLVar = "APIPROBE_BASE_URL"

var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Source names where a resolved value came from.
type Source string

const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "environment"
	SourceDotEnv Source = ".env"
	SourceConfig Source = "config"
)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver looks values up in the process environment first and then in the
// variables loaded from .env files. It is safe for concurrent use.
type Resolver struct {
	mu       sync.RWMutex
	dotenv   map[string]string
	lookup   func(string) (string, bool)
	warnFunc WarnFunc
}

func NewResolver(dotenv map[string]string) *Resolver {
	r := &Resolver{
		dotenv: make(map[string]string, len(dotenv)),
		lookup: os.LookupEnv,
	}
	for k, v := range dotenv {
		r.dotenv[k] = v
	}
	return r
}

// SetWarnFunc sets a function to be called when a ${VAR} reference cannot be resolved
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

// Lookup returns the value of key. Empty environment variables count as unset.
func (r *Resolver) Lookup(key string) (string, Source, bool) {
	if v, ok := r.lookup(key); ok && v != "" {
		return v, SourceEnv, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.dotenv[key]; ok && v != "" {
		return v, SourceDotEnv, true
	}
	return "", "", false
}

// BaseURL picks the API base URL: the flag wins, then APIPROBE_BASE_URL from
// the environment, then from .env, then the configured value.
func (r *Resolver) BaseURL(flag, configured string) (string, Source) {
	if flag != "" {
		return flag, SourceFlag
	}
	if v, src, ok := r.Lookup(BaseURLVar); ok {
		return v, src
	}
	return configured, SourceConfig
}

// Expand replaces ${VAR} references. Unresolved references are left in place
// and reported through the warn func.
func (r *Resolver) Expand(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]
		if v, _, ok := r.Lookup(name); ok {
			return v
		}
		r.warn("unresolved environment variable: %s", name)
		return match
	})
}

// ExpandAll expands every value of values into a new map.
func (r *Resolver) ExpandAll(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Expand(v)
	}
	return result
}

// HasUnresolved reports whether input still holds a ${VAR} reference after expansion.
func (r *Resolver) HasUnresolved(input string) bool {
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		if _, _, ok := r.Lookup(m[1]); !ok {
			return true
		}
	}
	return false
}
