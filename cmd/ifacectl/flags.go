package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/faciam-dev/urlpreview/internal/config"
	"github.com/faciam-dev/urlpreview/internal/framepolicy"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/sdk/client"
)

func newLogger(cmd *cobra.Command) *zap.SugaredLogger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// localRegistry returns the built-ins plus any descriptors found in --dir.
func localRegistry(cmd *cobra.Command) (interfaces.Registry, error) {
	log := newLogger(cmd)
	defer log.Sync() //nolint:errcheck

	reg := interfaces.Builtins()
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		return reg, nil
	}
	ds, err := interfaces.LoadAll(dir)
	if err != nil {
		log.Warnw("failed to load extensions", "dir", dir, "err", err)
		return nil, err
	}
	if len(ds) > 0 {
		if _, _, err := reg.ApplyDiff(context.Background(), ds, nil); err != nil {
			return nil, err
		}
	}
	log.Infow("loaded extensions", "dir", dir, "count", len(ds))
	return reg, nil
}

// framePolicy reads the frame-src directive from the environment unless
// override is set.
func framePolicy(override string) (*framepolicy.Policy, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if override != "" {
		cfg.FrameSrc = override
	}
	return cfg.FramePolicy()
}

func newClient(cmd *cobra.Command) (client.Client, error) {
	apiURL, _ := cmd.Flags().GetString("api-url")
	if apiURL != "" {
		return client.NewHTTP(apiURL), nil
	}
	reg, err := localRegistry(cmd)
	if err != nil {
		return nil, err
	}
	policy, err := framePolicy("")
	if err != nil {
		return nil, fmt.Errorf("frame-src policy: %w", err)
	}
	return client.NewLocal(reg, policy), nil
}
