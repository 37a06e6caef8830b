// Package env fills the flags of a command from PAS_* environment
// variables and from the configuration file
package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const globalPrefix = "pas"

const errorMessagePrefix = "error mapping configuration to command flags"

// CheckEnvironmentVariables sets the flags of `command` that weren't
// given on the command line from the environment.  A flag named
// `max-depth` of the `match` subcommand is read from
// PAS_MATCH_MAX_DEPTH first and from PAS_MAX_DEPTH after that.
func CheckEnvironmentVariables(command *cobra.Command) error {
	var sources []*viper.Viper
	if command.Name() != globalPrefix {
		scoped := viper.New()
		scoped.SetEnvPrefix(fmt.Sprintf("%s_%s", globalPrefix, command.Name()))
		scoped.AutomaticEnv()
		sources = append(sources, scoped)
	}
	global := viper.New()
	global.SetEnvPrefix(globalPrefix)
	global.AutomaticEnv()
	sources = append(sources, global)

	return setFlags(command, func(name string) (any, bool) {
		for _, v := range sources {
			if v.IsSet(name) {
				return v.Get(name), true
			}
		}
		return nil, false
	})
}

// CheckConfigFile sets the flags of `command` that are still unset
// from the configuration loaded in `v`.  Keys of a section named
// after the command take precedence over top level keys.
func CheckConfigFile(command *cobra.Command, v *viper.Viper) error {
	return setFlags(command, func(name string) (any, bool) {
		for _, key := range []string{command.Name() + "." + name, name} {
			if v.IsSet(key) {
				return v.Get(key), true
			}
		}
		return nil, false
	})
}

func setFlags(command *cobra.Command, lookup func(string) (any, bool)) error {
	var errs []string
	command.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		val, ok := lookup(strings.ReplaceAll(f.Name, "-", "_"))
		if !ok {
			return
		}
		if err := command.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
			errs = append(errs, err.Error())
		}
	})
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", errorMessagePrefix, strings.Join(errs, "; "))
}
