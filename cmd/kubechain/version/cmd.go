/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/hyperledger-labs/kubechain/pkg/utils/errors"
	"github.com/hyperledger-labs/kubechain/platform/fabric/options"
	"github.com/spf13/cobra"
)

// Cmd returns the Cobra Command for Version
func Cmd() *cobra.Command {
	var constraint string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the targeted Fabric version.",
		Long:  `Print the Fabric version the derived layout targets, optionally checking it against a constraint such as ">= 1.0, < 2.0".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("trailing args detected")
			}
			// Parsing of the command line is done so silence cmd usage
			cmd.SilenceUsage = true
			v := options.NewDefault().ParsedVersion()
			if err := Check(v, constraint); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Fabric version: %s\n", v)
			return err
		},
	}
	cmd.Flags().StringVar(&constraint, "constraint", "", "fail unless the version satisfies this constraint")

	return cmd
}

// Check verifies v against constraint. An empty constraint always holds.
func Check(v *version.Version, constraint string) error {
	if len(constraint) == 0 {
		return nil
	}
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid constraint [%s]", constraint)
	}
	if !c.Check(v) {
		return errors.Errorf("fabric version %s does not satisfy [%s]", v, constraint)
	}
	return nil
}
