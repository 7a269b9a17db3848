/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"
	"strings"

	"github.com/hyperledger-labs/kubechain/cmd/kubechain/paths"
	"github.com/hyperledger-labs/kubechain/cmd/kubechain/version"
	"github.com/hyperledger-labs/kubechain/platform/common/services/config"
	"github.com/hyperledger-labs/kubechain/platform/common/services/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The main command describes the service and
// defaults to printing the help message.
var mainCmd = &cobra.Command{
	Use:   config.CmdRoot,
	Short: "Derive the paths of a Fabric network deployed on Kubernetes.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{
			LogSpec: viper.GetString(config.LoggingSpecKey),
			Format:  viper.GetString(config.LoggingFormatKey),
			Writer:  cmd.ErrOrStderr(),
		})
	},
}

func main() {
	// For environment variables.
	viper.SetEnvPrefix(config.CmdRoot)
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	mainCmd.PersistentFlags().String("log-spec", "", "logging spec, e.g. info:kubechain=debug")
	_ = viper.BindPFlag(config.LoggingSpecKey, mainCmd.PersistentFlags().Lookup("log-spec"))

	mainCmd.AddCommand(paths.NewCmd())
	mainCmd.AddCommand(version.Cmd())

	// On failure Cobra prints the usage message and error string, so we only
	// need to exit with a non-0 status
	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}
