// Package step describes the context a pipeline step runs in: its input,
// output and log paths, parameters, wildcards and config.
//
// A Context is built either directly (tests, ad-hoc runs) or from a
// workflow manifest with Workflow.Context.
package step

import (
	"fmt"
	"os"
	"path/filepath"

	"network-summary/internal/config"

	"go.uber.org/zap"
)

type Context struct {
	Rule      string
	Input     NamedList
	Output    NamedList
	Log       NamedList
	Params    map[string]any
	Wildcards map[string]string
	Config    *config.Config
}

// LogFile is the python log if declared, else the first log, else
// logs/<rule>.log.
func (c *Context) LogFile() string {
	if p, ok := c.Log.Get("python"); ok {
		return p
	}
	if p, ok := c.Log.First(); ok {
		return p
	}
	return filepath.Join("logs", c.Rule+".log")
}

// EnsureDirs creates the parent directories of every output and log file.
func (c *Context) EnsureDirs(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	paths := append(append([]string(nil), c.Output.Paths...), c.Log.Paths...)
	if c.Log.Len() == 0 {
		paths = append(paths, c.LogFile())
	}
	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		logger.Info("created directory", zap.String("dir", dir), zap.String("rule", c.Rule))
	}
	return nil
}

// Param returns a string parameter.
func (c *Context) Param(name string) (string, bool) {
	v, ok := c.Params[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// BoolParam returns a boolean parameter, false when missing.
func (c *Context) BoolParam(name string) bool {
	v, _ := c.Params[name].(bool)
	return v
}
