// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// renderConfig holds the options viper loads from an optional config file,
// overridable by flags on render/watch. The mapstructure tags give the
// config keys used in the YAML file.
type renderConfig struct {
	RawHTML         bool `mapstructure:"raw_html"`
	WatchDebounceMS int  `mapstructure:"watch_debounce_ms"`
}

var (
	cfgFile string
	verbose bool
	cfg     renderConfig
)

var rootCmd = &cobra.Command{
	Use:   "blockdump",
	Short: "Render and inspect Markdown block structure",
	Long: `blockdump is a thin CLI over the blockmark block-level parser.

It renders Markdown to HTML, dumps the raw block-event stream for
debugging, and can watch a file and re-render it on save.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return loadConfig()
	},
}

// Execute runs the root command, returning any error after it has already
// been printed to stderr by cobra.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.blockdump.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentFlags().Bool("raw-html", true, "pass raw HTML blocks through verbatim")
	rootCmd.PersistentFlags().Int("watch-debounce-ms", 150, "debounce window for watch mode, in milliseconds")
	if err := viper.BindPFlag("raw_html", rootCmd.PersistentFlags().Lookup("raw-html")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("watch_debounce_ms", rootCmd.PersistentFlags().Lookup("watch-debounce-ms")); err != nil {
		panic(err)
	}
}

// loadConfig reads an optional YAML config file (flags win over file values,
// file values win over the defaults registered above) and unmarshals the
// result into cfg.
func loadConfig() error {
	viper.SetConfigType("yaml")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".blockdump")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("load config: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}
