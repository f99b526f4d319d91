// SPDX-License-Identifier: MIT
package repofleet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skaphos/repofleet/internal/candidates"
	"github.com/skaphos/repofleet/internal/config"
	"github.com/skaphos/repofleet/internal/engine"
	"github.com/skaphos/repofleet/internal/model"
	"github.com/skaphos/repofleet/internal/strutil"
)

// runtimeEnv is the resolved configuration and engine for one invocation.
type runtimeEnv struct {
	cfgPath string
	cfg     *config.Config
	root    string
	log     *logrus.Logger
	eng     *engine.Engine
}

func loadRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfgPath, err := config.ResolveConfigPath(flagConfig, cwd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	root := config.EffectiveRoot(cfgPath, cfg, cwd)
	if strings.TrimSpace(flagRoot) != "" {
		root, err = filepath.Abs(flagRoot)
		if err != nil {
			return nil, err
		}
	}

	logger := newLogger(cmd)
	logger.WithFields(logrus.Fields{"config": cfgPath, "root": root}).Debug("resolved runtime")
	return &runtimeEnv{
		cfgPath: cfgPath,
		cfg:     cfg,
		root:    root,
		log:     logger,
		eng:     engine.New(cfg, nil, logger),
	}, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.MaxDepth = flagDepth
	}
	if flags.Changed("exclude") {
		cfg.Exclude = strutil.SplitCSV(flagExclude)
	}
	if flags.Changed("concurrency") {
		if flagConcurrency < 0 {
			return fmt.Errorf("--concurrency must not be negative (got %d)", flagConcurrency)
		}
		cfg.Defaults.Concurrency = flagConcurrency
	}
	if flags.Changed("timeout") {
		if flagTimeout < 0 {
			return fmt.Errorf("--timeout must not be negative (got %d)", flagTimeout)
		}
		cfg.Defaults.TimeoutSeconds = flagTimeout
	}
	return nil
}

// selectRepositories discovers working trees, keeps the ones named in
// names (all when empty) that pass --filter, and refreshes them.
func (rt *runtimeEnv) selectRepositories(cmd *cobra.Command, names []string) ([]model.Repository, error) {
	repos, err := rt.eng.Discover(cmd.Context(), rt.eng.ScanOptions(rt.root))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", rt.root, err)
	}
	selected := candidates.Select(repos, names)
	if missing := missingNames(selected, names); len(missing) > 0 {
		return nil, fmt.Errorf("no repository named %s under %s", strings.Join(missing, ", "), rt.root)
	}
	cands := candidates.Filter(candidates.Build(selected), flagFilter)
	if len(cands) == 0 {
		return nil, fmt.Errorf("no repositories found under %s", rt.root)
	}
	return rt.eng.RefreshAll(cmd.Context(), candidates.Repositories(cands)), nil
}

func missingNames(repos []model.Repository, names []string) []string {
	found := make(map[string]struct{}, len(repos))
	for _, repo := range repos {
		found[repo.Name] = struct{}{}
	}
	var missing []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := found[name]; !ok {
			missing = append(missing, fmt.Sprintf("%q", name))
		}
	}
	return missing
}
