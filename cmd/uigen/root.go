package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-uigen/pkg/metadata/fsfetch"
	"github.com/goliatone/go-uigen/pkg/orchestrator"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "uigen",
		Short:         "Generate UI contracts and frontend modules from doctype metadata",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("metadata", "", "directory holding doctype metadata bundles (YAML or JSON)")
	root.PersistentFlags().String("preset", "plain", "rendering preset: plain, dense, or styled")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.SetEnvPrefix("UIGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, flag := range []string{"metadata", "preset", "verbose"} {
		_ = viper.BindPFlag(flag, root.PersistentFlags().Lookup(flag))
	}

	root.AddCommand(
		newContractCmd(),
		newGenerateCmd(),
		newSyncCmd(),
		newServeCmd(),
	)
	return root
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// loadStore opens the metadata bundle directory named by --metadata or
// UIGEN_METADATA.
func loadStore() (*fsfetch.Store, error) {
	dir := strings.TrimSpace(viper.GetString("metadata"))
	if dir == "" {
		return nil, errors.New("a metadata directory is required (--metadata or UIGEN_METADATA)")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("metadata directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("metadata path %q is not a directory", dir)
	}
	return fsfetch.New(os.DirFS(dir))
}

func newPipeline() (*orchestrator.Orchestrator, *fsfetch.Store, *zap.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := loadStore()
	if err != nil {
		return nil, nil, nil, err
	}
	orch := orchestrator.New(
		orchestrator.WithFetcher(store),
		orchestrator.WithLogger(logger),
	)
	return orch, store, logger, nil
}

// resolveDocType takes the doctype from the argument list or, when omitted,
// prompts with the names available in the store.
func resolveDocType(args []string, store *fsfetch.Store) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	names := store.Names()
	if len(names) == 0 {
		return "", errors.New("the metadata directory contains no doctype bundles")
	}

	var chosen string
	prompt := &survey.Select{
		Message: "Select a doctype:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &chosen); err != nil {
		return "", fmt.Errorf("doctype selection: %w", err)
	}
	return chosen, nil
}
