/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

const (
	// BlockchainNameKey names the blockchain network, e.g. fabric
	BlockchainNameKey = "targets.blockchain.name"
	// KubernetesNameKey names the orchestration target, e.g. minikube
	KubernetesNameKey = "targets.kubernetes.name"
	// ConfigurationPathKey is the root of the generated network configuration
	ConfigurationPathKey = "paths.configuration"
	// BlockchainsPathKey is the root of the generated blockchain artifacts
	BlockchainsPathKey = "paths.blockchains"
	// KubernetesPathKey is the root of the generated kubernetes manifests
	KubernetesPathKey = "paths.kubernetes"

	LoggingSpecKey   = "logging.spec"
	LoggingFormatKey = "logging.format"
)

const (
	DefaultBlockchainName    = "fabric"
	DefaultKubernetesName    = "minikube"
	DefaultConfigurationPath = "configuration"
	DefaultBlockchainsPath   = "blockchains"
	DefaultKubernetesPath    = "kubernetes"
)

type Target struct {
	Name string `mapstructure:"name" yaml:"name"`
}

type Targets struct {
	Blockchain Target `mapstructure:"blockchain" yaml:"blockchain"`
	Kubernetes Target `mapstructure:"kubernetes" yaml:"kubernetes"`
}

type Paths struct {
	Configuration string `mapstructure:"configuration" yaml:"configuration"`
	Blockchains   string `mapstructure:"blockchains" yaml:"blockchains"`
	Kubernetes    string `mapstructure:"kubernetes" yaml:"kubernetes"`
}

type Logging struct {
	Spec   string `mapstructure:"spec" yaml:"spec,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// Settings is the typed view of a kubechain settings document.
type Settings struct {
	Targets Targets `mapstructure:"targets" yaml:"targets"`
	Paths   Paths   `mapstructure:"paths" yaml:"paths"`
	Logging Logging `mapstructure:"logging" yaml:"logging,omitempty"`
}

// DefaultSettings targets a fabric network on minikube with every root
// relative to the working directory.
func DefaultSettings() Settings {
	return Settings{
		Targets: Targets{
			Blockchain: Target{Name: DefaultBlockchainName},
			Kubernetes: Target{Name: DefaultKubernetesName},
		},
		Paths: Paths{
			Configuration: DefaultConfigurationPath,
			Blockchains:   DefaultBlockchainsPath,
			Kubernetes:    DefaultKubernetesPath,
		},
	}
}

func (s Settings) toMap() map[string]any {
	m := map[string]any{
		"targets": map[string]any{
			"blockchain": map[string]any{"name": s.Targets.Blockchain.Name},
			"kubernetes": map[string]any{"name": s.Targets.Kubernetes.Name},
		},
		"paths": map[string]any{
			"configuration": s.Paths.Configuration,
			"blockchains":   s.Paths.Blockchains,
			"kubernetes":    s.Paths.Kubernetes,
		},
	}
	logging := map[string]any{}
	if len(s.Logging.Spec) != 0 {
		logging["spec"] = s.Logging.Spec
	}
	if len(s.Logging.Format) != 0 {
		logging["format"] = s.Logging.Format
	}
	if len(logging) != 0 {
		m["logging"] = logging
	}
	return m
}
