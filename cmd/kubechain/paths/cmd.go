/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package paths

import (
	"fmt"
	"io"
	"os"

	"github.com/hyperledger-labs/kubechain/pkg/utils/errors"
	"github.com/hyperledger-labs/kubechain/platform/common/services/config"
	"github.com/hyperledger-labs/kubechain/platform/common/services/logging"
	"github.com/hyperledger-labs/kubechain/platform/fabric/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// ErrNoMatch is returned when a query selects nothing
var ErrNoMatch = errors.New("no match")

// NewCmd returns the Cobra Command printing the derived Fabric paths
func NewCmd() *cobra.Command {
	var (
		confPath string
		files    []string
		query    string
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the derived network paths.",
		Long:  `Print the paths derived for the configured network and orchestration target, or the values selected by a path query.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			// Parsing of the command line is done so silence cmd usage
			cmd.SilenceUsage = true
			p, err := Load(confPath, files...)
			if err != nil {
				return err
			}
			logging.Init(LoggingConfig(
				viper.GetString(config.LoggingSpecKey),
				viper.GetString(config.LoggingFormatKey),
				p,
				cmd.ErrOrStderr(),
			))
			return Print(cmd.OutOrStdout(), options.New(p), query, all)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&confPath, "config", "c", "", "directory containing kubechain.yaml")
	flags.StringSliceVarP(&files, "file", "f", nil, "settings files to merge, overrides --config")
	flags.StringVarP(&query, "query", "q", "", "path expression, e.g. $.kubernetes.paths.root")
	flags.BoolVarP(&all, "all", "a", false, "print every value selected by --query")

	return cmd
}

// Load reads the settings out of the given files, or out of the
// kubechain.yaml found in confPath or KUBECHAIN_CFG_PATH. Without any of them
// the fabric on minikube defaults are used.
func Load(confPath string, files ...string) (*config.Provider, error) {
	switch {
	case len(files) != 0:
		return config.NewProviderFromFiles(files...)
	case len(confPath) != 0 || len(os.Getenv(config.CfgPathEnv)) != 0:
		return config.NewProvider(confPath)
	default:
		return config.NewDefaultProvider(), nil
	}
}

// LoggingConfig prefers the spec and format given on the command line or in
// the environment over the ones found in the settings.
func LoggingConfig(spec, format string, p *config.Provider, w io.Writer) logging.Config {
	if len(spec) == 0 {
		spec = p.GetString(config.LoggingSpecKey)
	}
	if len(format) == 0 {
		format = p.GetString(config.LoggingFormatKey)
	}
	return logging.Config{LogSpec: spec, Format: format, Writer: w}
}

// Print writes the whole tree as YAML when query is empty, otherwise the
// first selected value, or every selected value when all is set.
func Print(w io.Writer, o *options.Options, query string, all bool) error {
	if len(query) == 0 {
		raw, err := o.YAML()
		if err != nil {
			return errors.Wrap(err, "failed rendering paths")
		}
		_, err = w.Write(raw)
		return err
	}

	values := o.GetAll(query)
	if len(values) == 0 {
		return errors.Wrapf(ErrNoMatch, "query [%s]", query)
	}
	if !all {
		values = values[:1]
	}
	for _, v := range values {
		if err := printValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

func printValue(w io.Writer, v interface{}) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed rendering value")
	}
	_, err = w.Write(raw)
	return err
}
