/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"path/filepath"
	"testing"

	"github.com/hyperledger-labs/kubechain/platform/common/services/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestReadFile(t *testing.T) {
	p, err := NewProvider("./testdata")
	require.NoError(t, err)

	assert.Equal(t, "fabric", p.GetString(BlockchainNameKey))
	assert.Equal(t, "minikube", p.GetString("$.targets.kubernetes.name"))
	assert.Equal(t, "/var/kubechain/kubernetes", p.GetString(KubernetesPathKey))
	assert.Equal(t, "/var/kubechain/blockchains", p.Get("$.paths.blockchains"))
	assert.True(t, p.IsSet("logging.spec"))
	assert.False(t, p.IsSet("paths.charts"))
	assert.Equal(t, "", p.GetString("paths.charts"))

	abs, err := filepath.Abs("testdata/configuration")
	require.NoError(t, err)
	assert.Equal(t, abs, p.GetPath(ConfigurationPathKey))
	assert.Equal(t, "/var/kubechain/kubernetes", p.GetPath(KubernetesPathKey))

	s, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, "fabric", s.Targets.Blockchain.Name)
	assert.Equal(t, "minikube", s.Targets.Kubernetes.Name)
	assert.Equal(t, "configuration", s.Paths.Configuration)
	assert.Equal(t, "info", s.Logging.Spec)

	var paths Paths
	require.NoError(t, p.UnmarshalKey("$.paths", &paths))
	assert.Equal(t, s.Paths, paths)
}

func TestMissingFile(t *testing.T) {
	_, err := NewProvider("./testdata/split")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kubechain.yaml")
}

func TestCfgPathEnv(t *testing.T) {
	t.Setenv(CfgPathEnv, "./testdata/does-not-exist")
	_, err := NewProvider("")
	assert.EqualError(t, err, "KUBECHAIN_CFG_PATH ./testdata/does-not-exist does not exist")

	t.Setenv(CfgPathEnv, "./testdata")
	p, err := NewProvider("")
	require.NoError(t, err)
	assert.Equal(t, "minikube", p.GetString(KubernetesNameKey))
}

func TestEnvSubstitution(t *testing.T) {
	t.Setenv("KUBECHAIN_PATHS_KUBERNETES", "/k8s")
	t.Setenv("KUBECHAIN_TARGETS_KUBERNETES_NAME", "kind")
	t.Setenv("KUBECHAIN_PATHS_CHARTS", "charts")
	t.Setenv("KUBECHAIN_TARGETS", "cannot replace a map")
	t.Setenv("KUBECHAIN_PATHS_BLOCKCHAINS", "") // empty env vars are disregarded

	p, err := NewProvider("./testdata")
	require.NoError(t, err)

	assert.Equal(t, "/k8s", p.GetString(KubernetesPathKey))
	assert.Equal(t, "kind", p.GetString(KubernetesNameKey))
	assert.Equal(t, "/var/kubechain/blockchains", p.GetString(BlockchainsPathKey))
	assert.Equal(t, "charts", p.GetString("paths.charts"))
	// siblings survive the substitution
	assert.Equal(t, "configuration", p.GetString(ConfigurationPathKey))
	assert.Equal(t, "fabric", p.GetString(BlockchainNameKey))
}

func TestFromFiles(t *testing.T) {
	p, err := NewProviderFromFiles("testdata/split/targets.yaml", "testdata/split/paths.json")
	require.NoError(t, err)

	assert.Equal(t, "gke", p.GetString(KubernetesNameKey))
	assert.Equal(t, "/cfg", p.GetString(ConfigurationPathKey))
	assert.Equal(t, filepath.Join("testdata", "split", "k8s"), p.GetPath(KubernetesPathKey))

	_, err = NewProviderFromFiles()
	assert.EqualError(t, err, "no settings files given")

	_, err = NewProviderFromFiles("testdata/split/missing.yaml")
	assert.Error(t, err)
}

func TestFromSettings(t *testing.T) {
	p := NewDefaultProvider()
	assert.Equal(t, DefaultBlockchainName, p.GetString(BlockchainNameKey))
	assert.Equal(t, DefaultKubernetesName, p.GetString(KubernetesNameKey))
	assert.Equal(t, DefaultKubernetesPath, p.GetString(KubernetesPathKey))
	assert.False(t, p.IsSet(LoggingSpecKey))

	s, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, "", p.ConfigFileUsed())
	assert.Equal(t, "kubernetes", p.GetPath(KubernetesPathKey))
}

func TestMergeConfig(t *testing.T) {
	p := NewDefaultProvider()
	require.NoError(t, p.MergeConfig([]byte("targets:\n  kubernetes:\n    name: eks\n")))
	assert.Equal(t, "eks", p.GetString(KubernetesNameKey))
	assert.Equal(t, DefaultBlockchainName, p.GetString(BlockchainNameKey))

	assert.Error(t, p.MergeConfig([]byte("targets: [")))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "targets.blockchain.name", Join("targets", ".blockchain.", " name "))
	assert.Equal(t, "paths", Join("", "paths", "."))
	assert.Equal(t, "", Join())
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "targets.blockchain.name", NormalizeKey("$.targets.blockchain.name"))
	assert.Equal(t, "paths.kubernetes", NormalizeKey("Paths.Kubernetes"))
	assert.Equal(t, "", NormalizeKey("$"))
}

func TestTranslatePath(t *testing.T) {
	assert.Equal(t, "/abs/file", TranslatePath("/base", "/abs/file"))
	assert.Equal(t, "/base/rel/file", TranslatePath("/base", "rel/file"))
}

func TestLoadingLeavesLoggingAlone(t *testing.T) {
	logging.Init(logging.Config{LogSpec: "debug"})
	defer logging.Init(logging.Config{})

	// testdata/kubechain.yaml asks for info
	_, err := NewProvider("./testdata")
	require.NoError(t, err)
	assert.True(t, logging.MustGetLogger("kubechain.fabric.options").IsEnabledFor(zapcore.DebugLevel))
}

func TestGetStringTrimsLikeSettings(t *testing.T) {
	p := NewDefaultProvider()
	require.NoError(t, p.MergeConfig([]byte("targets:\n  blockchain:\n    name: \" fabric \"\npaths:\n  kubernetes: \" /k8s\"\n")))

	assert.Equal(t, "fabric", p.GetString(BlockchainNameKey))
	assert.Equal(t, "/k8s", p.GetString(KubernetesPathKey))

	s, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, s.Targets.Blockchain.Name, p.GetString(BlockchainNameKey))
	assert.Equal(t, s.Paths.Kubernetes, p.GetString(KubernetesPathKey))
}
