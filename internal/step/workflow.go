package step

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"network-summary/internal/config"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownRule        = errors.New("unknown rule")
	ErrUnresolvedWildcard = errors.New("unresolved wildcard")
)

// Rule is one step declaration of a workflow manifest.
type Rule struct {
	Input  NamedList      `yaml:"input"`
	Output NamedList      `yaml:"output"`
	Log    NamedList      `yaml:"log"`
	Params map[string]any `yaml:"params"`
}

// Workflow is a parsed manifest. Relative paths resolve against Dir.
type Workflow struct {
	ConfigFile string          `yaml:"config"`
	Rules      map[string]Rule `yaml:"rules"`

	Dir    string         `yaml:"-"`
	Config *config.Config `yaml:"-"`
}

// LoadWorkflow reads a manifest and the config file it points to. Without a
// config entry the defaults are used.
func LoadWorkflow(path string) (*Workflow, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	var w Workflow
	if err := yaml.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workflow %s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	w.Dir = abs

	if w.ConfigFile == "" {
		w.Config = config.Default()
		return &w, nil
	}
	cfgPath := w.ConfigFile
	if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(w.Dir, cfgPath)
	}
	w.Config, err = config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("workflow config: %w", err)
	}
	return &w, nil
}

// RuleNames lists the declared rules, sorted.
func (w *Workflow) RuleNames() []string {
	names := make([]string, 0, len(w.Rules))
	for n := range w.Rules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var wildcardRe = regexp.MustCompile(`\{(\w+)\}`)

// Context builds the step context for rule with the given wildcard values.
func (w *Workflow) Context(rule string, wildcards map[string]string) (*Context, error) {
	r, ok := w.Rules[rule]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, rule)
	}

	resolve := func(p string) (string, error) {
		var missing string
		p = wildcardRe.ReplaceAllStringFunc(p, func(m string) string {
			name := m[1 : len(m)-1]
			v, ok := wildcards[name]
			if !ok && missing == "" {
				missing = name
			}
			return v
		})
		if missing != "" {
			return "", fmt.Errorf("%w {%s} in rule %s", ErrUnresolvedWildcard, missing, rule)
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(w.Dir, p)
		}
		return p, nil
	}

	c := &Context{Rule: rule, Params: r.Params, Wildcards: wildcards, Config: w.Config}
	if c.Params == nil {
		c.Params = map[string]any{}
	}
	if c.Wildcards == nil {
		c.Wildcards = map[string]string{}
	}
	var err error
	if c.Input, err = r.Input.Map(resolve); err != nil {
		return nil, err
	}
	if c.Output, err = r.Output.Map(resolve); err != nil {
		return nil, err
	}
	if c.Log, err = r.Log.Map(resolve); err != nil {
		return nil, err
	}
	if c.Log.Len() == 0 {
		c.Log.Add("", filepath.Join(w.Dir, "logs", rule+".log"))
	}
	return c, nil
}
