/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package paths_test

import (
	"bytes"
	"os"

	"github.com/hyperledger-labs/kubechain/cmd/kubechain/paths"
	"github.com/hyperledger-labs/kubechain/pkg/utils/errors"
	"github.com/hyperledger-labs/kubechain/platform/common/services/config"
	"github.com/hyperledger-labs/kubechain/platform/common/services/logging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

var _ = Describe("Paths", func() {
	var (
		out *bytes.Buffer
		run func(args ...string) error
	)

	BeforeEach(func() {
		// the defaults must not pick up a developer's settings
		if v, ok := os.LookupEnv(config.CfgPathEnv); ok {
			Expect(os.Unsetenv(config.CfgPathEnv)).To(Succeed())
			DeferCleanup(os.Setenv, config.CfgPathEnv, v)
		}

		out = &bytes.Buffer{}
		run = func(args ...string) error {
			cmd := paths.NewCmd()
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(args)
			return cmd.Execute()
		}
	})

	It("prints the default tree", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(HavePrefix("name: fabric-minikube\nversion: 1.0.4\n"))
		Expect(out.String()).To(ContainSubstring("root: kubernetes/fabric-minikube\n"))
	})

	It("answers a query from kubechain.yaml", func() {
		Expect(run("--config", "testdata", "--query", "$.kubernetes.paths.root")).To(Succeed())
		Expect(out.String()).To(Equal("/k8s/fabric-kind\n"))
	})

	It("honours KUBECHAIN_CFG_PATH", func() {
		Expect(os.Setenv(config.CfgPathEnv, "testdata")).To(Succeed())
		DeferCleanup(os.Unsetenv, config.CfgPathEnv)

		Expect(run("-q", "name")).To(Succeed())
		Expect(out.String()).To(Equal("fabric-kind\n"))
	})

	It("prints every match with --all", func() {
		Expect(run("-c", "testdata", "-q", "$..paths.root", "--all")).To(Succeed())
		Expect(out.String()).To(Equal("/cfg/fabric\n/chains/fabric\n/chains/fabric/crypto-config\n/k8s/fabric-kind\n"))
	})

	It("prints inner nodes as YAML", func() {
		Expect(run("-c", "testdata", "-q", "$.configuration.paths")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("configtx: /cfg/fabric/configtx.yaml\n"))
		Expect(out.String()).To(ContainSubstring("cryptoconfig: /cfg/fabric/crypto-config.yaml\n"))
	})

	It("merges settings files", func() {
		Expect(run("-f", "testdata/base.yaml", "-f", "testdata/override.yaml", "-q", "$.kubernetes.paths.ordererorganizations")).To(Succeed())
		Expect(out.String()).To(Equal("/srv/k8s/fabric-gke/ordererOrganizations\n"))
	})

	It("fails when nothing matches", func() {
		err := run("-q", "$.helm")
		Expect(err).To(HaveOccurred())
		Expect(errors.HasCause(err, paths.ErrNoMatch)).To(BeTrue())
		Expect(out.String()).To(BeEmpty())
	})

	It("fails on trailing args", func() {
		Expect(run("extra")).To(MatchError("trailing args detected"))
	})

	It("keeps the command line log spec over the settings file", func() {
		viper.Set(config.LoggingSpecKey, "kubechain=debug:info")
		DeferCleanup(viper.Set, config.LoggingSpecKey, "")
		DeferCleanup(logging.Init, logging.Config{})

		// testdata/kubechain.yaml asks for info
		Expect(run("-c", "testdata", "-q", "name")).To(Succeed())
		Expect(logging.MustGetLogger("kubechain.fabric.options").IsEnabledFor(zapcore.DebugLevel)).To(BeTrue())
	})

	It("falls back to the settings file log spec", func() {
		DeferCleanup(logging.Init, logging.Config{})

		Expect(run("-c", "testdata", "-q", "name")).To(Succeed())
		Expect(logging.MustGetLogger("kubechain.fabric.options").IsEnabledFor(zapcore.DebugLevel)).To(BeFalse())
	})

	Describe("LoggingConfig", func() {
		It("prefers flags and environment over settings", func() {
			p, err := paths.Load("testdata")
			Expect(err).NotTo(HaveOccurred())
			errOut := &bytes.Buffer{}

			c := paths.LoggingConfig("debug", "", p, errOut)
			Expect(c.LogSpec).To(Equal("debug"))
			Expect(c.Format).To(Equal("%{message}"))
			Expect(c.Writer).To(BeIdenticalTo(errOut))

			c = paths.LoggingConfig("", "json", p, errOut)
			Expect(c.LogSpec).To(Equal("info"))
			Expect(c.Format).To(Equal("json"))
		})

		It("leaves the defaults to logging when nothing is configured", func() {
			c := paths.LoggingConfig("", "", config.NewDefaultProvider(), nil)
			Expect(c.LogSpec).To(BeEmpty())
			Expect(c.Format).To(BeEmpty())
		})
	})

	It("fails without kubechain.yaml", func() {
		Expect(run("-c", "does-not-exist")).To(MatchError(ContainSubstring("kubechain.yaml")))
	})
})
