package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roach88/proof/internal/compiler"
	"github.com/roach88/proof/internal/config"
	"github.com/roach88/proof/internal/explain"
	"github.com/roach88/proof/internal/infer"
	"github.com/roach88/proof/internal/store"
)

// env is what a store-backed command works against.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store
	tokens explain.TokenGenerator
}

// openEnv loads configuration, builds the logger and opens the store.
// The caller must call close.
func openEnv(opts *RootOptions) (*env, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logger, err := opts.logger(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build logger", err)
	}

	logger.Debug("opening store", zap.String("path", cfg.Store.Path))
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return &env{cfg: cfg, logger: logger, store: st, tokens: opts.Tokens}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// rulesDir picks the --rules flag over rules.dir.
func (e *env) rulesDir(flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.Rules.Dir
}

// reasoner compiles the rules in dir, interns their constants and builds
// the reference backend over the store. The rule prefixes are returned so
// command-line terms can use them too.
func (e *env) reasoner(ctx context.Context, dir string) (*infer.Engine, compiler.Prefixes, error) {
	loaded, err := loadRules(dir)
	if err != nil {
		return nil, nil, err
	}
	rules, err := infer.Bind(ctx, e.store, loaded.Rules)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to bind rules", err)
	}
	e.logger.Debug("rules loaded", zap.String("dir", dir), zap.Int("count", len(rules)))

	engine := infer.New(e.store, rules,
		infer.WithLogger(e.logger),
		infer.WithInference(e.cfg.Rules.Inference),
	)
	return engine, loaded.Prefixes, nil
}

// loadRules compiles every rule in dir. Any error fails the whole load.
func loadRules(dir string) (*compiler.LoadResult, error) {
	result, errs := compiler.LoadRules(dir, compiler.LoadModeCollectAll)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load rules from %s", dir), joinErrors(errs))
	}
	return result, nil
}

// joinErrors folds load errors into one error with one message per line.
func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return errors.New(strings.Join(msgs, "\n"))
}
