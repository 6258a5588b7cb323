/*
Copyright © 2020 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	Root, runCmd, infoCmd *cobra.Command
}

// option is a configuration option that can be set in the configuration
// file or with a command line flag.
type option struct {
	name, usage, shorthand string
	key                    string // configuration key, if different from name
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// NewCfg creates the command tree and binds its flags to the
// configuration.
func NewCfg() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "topography",
		Short: "A level set topography simulator.",
		Long: `topography moves material interfaces stored as sparse level sets.
Cases are described in a TOML configuration file; see the run command.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.InitializeConfig()
		},
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Advect the layers of a case.",
		Long: `run creates the layers described in the configuration file, advects
them and writes each of them to <output.prefix><name>.lvst.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.Config()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			files, err := Run(ctx, c, cfg.logger(cmd))
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return err
		},
	}

	cfg.infoCmd = &cobra.Command{
		Use:   "info file...",
		Short: "Describe level set files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Info(cmd.OutOrStdout(), args...)
		},
	}

	cfg.Root.AddCommand(cfg.runCmd, cfg.infoCmd)

	options := []option{
		{
			name:       "config",
			usage:      "configuration file location",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "verbose",
			shorthand:  "v",
			usage:      "print a log message for every time step",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "time",
			key:        "advection.time",
			usage:      "time to advect for; 0 takes a single time step",
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "scheme",
			key:        "advection.scheme",
			usage:      "spatial discretization scheme",
			defaultVal: "EngquistOsher1",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "integrator",
			key:        "advection.integrator",
			usage:      "time integration scheme: ForwardEuler, RungeKutta2 or RungeKutta3",
			defaultVal: "ForwardEuler",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "velocity",
			key:        "advection.velocity",
			usage:      "normal velocity of the surface; negative values remove material",
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "output",
			shorthand:  "o",
			key:        "output.prefix",
			usage:      "prefix of the output file names",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "plot",
			key:        "output.plot",
			usage:      "path of a PNG image of the final surfaces",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
	}

	for _, o := range options {
		key := o.key
		if key == "" {
			key = o.name
		}
		for _, set := range o.flagsets {
			switch v := o.defaultVal.(type) {
			case string:
				set.StringP(o.name, o.shorthand, v, o.usage)
			case bool:
				set.BoolP(o.name, o.shorthand, v, o.usage)
			case int:
				set.IntP(o.name, o.shorthand, v, o.usage)
			case float64:
				set.Float64P(o.name, o.shorthand, v, o.usage)
			default:
				panic("invalid argument type")
			}
			if err := cfg.BindPFlag(key, set.Lookup(o.name)); err != nil {
				panic(err)
			}
		}
	}
	cfg.SetDefault("grid.width", 2)
	return cfg
}

// InitializeConfig reads the configuration file, if one is given.
func (cfg *Cfg) InitializeConfig() error {
	path := cfg.GetString("config")
	if path == "" {
		return nil
	}
	cfg.SetConfigFile(path)
	cfg.SetConfigType("toml")
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("topography: problem reading configuration file: %w", err)
	}
	return nil
}

// Config returns the case described by the configuration.
func (cfg *Cfg) Config() (*Config, error) {
	c := new(Config)
	if err := cfg.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("topography: problem parsing configuration: %w", err)
	}
	return c, nil
}

func (cfg *Cfg) logger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.Out = cmd.ErrOrStderr()
	if cfg.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Execute runs the command tree with the given arguments.
func (cfg *Cfg) Execute(ctx context.Context, args ...string) error {
	cfg.Root.SetArgs(args)
	return cfg.Root.ExecuteContext(ctx)
}
