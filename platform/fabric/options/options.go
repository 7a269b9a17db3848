/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package options

import (
	"path/filepath"

	"github.com/hashicorp/go-version"
	"github.com/hyperledger-labs/kubechain/platform/common/services/config"
	"github.com/hyperledger-labs/kubechain/platform/common/services/logging"
	"gopkg.in/yaml.v2"
)

// Version is the Fabric release the derived layout targets.
const Version = "1.0.4"

const (
	ConfigTxFile         = "configtx.yaml"
	CryptoConfigFile     = "crypto-config.yaml"
	CryptoConfigDir      = "crypto-config"
	BinDir               = "bin"
	ChannelsDir          = "channels"
	PeerOrganizations    = "peerOrganizations"
	OrdererOrganizations = "ordererOrganizations"
)

var logger = logging.MustGetLogger("kubechain.fabric.options")

// SettingsProvider supplies the network name, the orchestration target name
// and the three roots everything else is derived from.
type SettingsProvider interface {
	GetString(key string) string
}

type ConfigurationPaths struct {
	Root         string `yaml:"root"`
	ConfigTx     string `yaml:"configtx"`
	CryptoConfig string `yaml:"cryptoconfig"`
}

type Configuration struct {
	Paths ConfigurationPaths `yaml:"paths"`
}

type BlockchainPaths struct {
	Root     string `yaml:"root"`
	Bin      string `yaml:"bin"`
	Channels string `yaml:"channels"`
}

type OrganizationsPaths struct {
	Root                 string `yaml:"root"`
	PeerOrganizations    string `yaml:"peerorganizations"`
	OrdererOrganizations string `yaml:"ordererorganizations"`
}

type Organizations struct {
	Paths OrganizationsPaths `yaml:"paths"`
}

type Blockchain struct {
	Paths         BlockchainPaths `yaml:"paths"`
	Organizations Organizations   `yaml:"organizations"`
}

type KubernetesPaths struct {
	Root                 string `yaml:"root"`
	PeerOrganizations    string `yaml:"peerorganizations"`
	OrdererOrganizations string `yaml:"ordererorganizations"`
}

type Kubernetes struct {
	Paths KubernetesPaths `yaml:"paths"`
}

// Tree is the derived configuration. It only holds strings, so copies
// handed out by Options cannot alter it.
type Tree struct {
	Name          string        `yaml:"name"`
	Version       string        `yaml:"version"`
	Configuration Configuration `yaml:"configuration"`
	Blockchain    Blockchain    `yaml:"blockchain"`
	Kubernetes    Kubernetes    `yaml:"kubernetes"`
}

// Options holds the paths of a Fabric network deployed on a Kubernetes target.
// The tree is computed once, when the Options are created.
type Options struct {
	provider SettingsProvider
	tree     Tree
	doc      yaml.MapSlice
}

// New derives the path tree from the current values of sp. A nil provider
// falls back to config.NewDefaultProvider.
// Missing settings are not checked: they end up as malformed paths.
func New(sp SettingsProvider) *Options {
	if sp == nil {
		sp = config.NewDefaultProvider()
	}
	o := &Options{provider: sp}
	o.tree = o.defaults()
	o.doc = o.tree.mapSlice()

	logger.Debugf("derived paths for [%s]: configuration [%s], blockchain [%s], kubernetes [%s]",
		o.tree.Name,
		o.tree.Configuration.Paths.Root,
		o.tree.Blockchain.Paths.Root,
		o.tree.Kubernetes.Paths.Root,
	)
	return o
}

// NewDefault returns the options of a fabric network on minikube.
func NewDefault() *Options {
	return New(config.NewDefaultProvider())
}

// NewFromSettings derives the options from an explicit settings value.
func NewFromSettings(s config.Settings) *Options {
	return New(config.NewProviderFromSettings(s))
}

func (o *Options) name() string {
	return o.provider.GetString(config.BlockchainNameKey) + "-" + o.provider.GetString(config.KubernetesNameKey)
}

func (o *Options) defaults() Tree {
	blockchainName := o.provider.GetString(config.BlockchainNameKey)
	name := o.name()

	configurationRoot := filepath.Join(o.provider.GetString(config.ConfigurationPathKey), blockchainName)
	blockchainRoot := filepath.Join(o.provider.GetString(config.BlockchainsPathKey), blockchainName)
	organizationsRoot := filepath.Join(blockchainRoot, CryptoConfigDir)
	kubernetesRoot := filepath.Join(o.provider.GetString(config.KubernetesPathKey), name)

	return Tree{
		Name:    name,
		Version: Version,
		Configuration: Configuration{
			Paths: ConfigurationPaths{
				Root:         configurationRoot,
				ConfigTx:     filepath.Join(configurationRoot, ConfigTxFile),
				CryptoConfig: filepath.Join(configurationRoot, CryptoConfigFile),
			},
		},
		Blockchain: Blockchain{
			Paths: BlockchainPaths{
				Root:     blockchainRoot,
				Bin:      filepath.Join(blockchainRoot, BinDir),
				Channels: filepath.Join(blockchainRoot, ChannelsDir),
			},
			Organizations: Organizations{
				Paths: OrganizationsPaths{
					Root:                 organizationsRoot,
					PeerOrganizations:    filepath.Join(organizationsRoot, PeerOrganizations),
					OrdererOrganizations: filepath.Join(organizationsRoot, OrdererOrganizations),
				},
			},
		},
		Kubernetes: Kubernetes{
			Paths: KubernetesPaths{
				Root:                 kubernetesRoot,
				PeerOrganizations:    filepath.Join(kubernetesRoot, PeerOrganizations),
				OrdererOrganizations: filepath.Join(kubernetesRoot, OrdererOrganizations),
			},
		},
	}
}

// Name returns <blockchain>-<kubernetes>, the directory name of the
// orchestration target.
func (o *Options) Name() string {
	return o.tree.Name
}

func (o *Options) Version() string {
	return o.tree.Version
}

// ParsedVersion returns Version as a comparable semantic version.
func (o *Options) ParsedVersion() *version.Version {
	return version.Must(version.NewVersion(o.tree.Version))
}

func (o *Options) Configuration() Configuration {
	return o.tree.Configuration
}

func (o *Options) Blockchain() Blockchain {
	return o.tree.Blockchain
}

func (o *Options) Kubernetes() Kubernetes {
	return o.tree.Kubernetes
}

// Tree returns a copy of the whole derived configuration.
func (o *Options) Tree() Tree {
	return o.tree
}

// YAML renders the derived configuration.
func (o *Options) YAML() ([]byte, error) {
	return yaml.Marshal(o.doc)
}

// mapSlice lays the tree out in document order for querying and rendering.
func (t Tree) mapSlice() yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "name", Value: t.Name},
		{Key: "version", Value: t.Version},
		{Key: "configuration", Value: yaml.MapSlice{
			{Key: "paths", Value: yaml.MapSlice{
				{Key: "root", Value: t.Configuration.Paths.Root},
				{Key: "configtx", Value: t.Configuration.Paths.ConfigTx},
				{Key: "cryptoconfig", Value: t.Configuration.Paths.CryptoConfig},
			}},
		}},
		{Key: "blockchain", Value: yaml.MapSlice{
			{Key: "paths", Value: yaml.MapSlice{
				{Key: "root", Value: t.Blockchain.Paths.Root},
				{Key: "bin", Value: t.Blockchain.Paths.Bin},
				{Key: "channels", Value: t.Blockchain.Paths.Channels},
			}},
			{Key: "organizations", Value: yaml.MapSlice{
				{Key: "paths", Value: yaml.MapSlice{
					{Key: "root", Value: t.Blockchain.Organizations.Paths.Root},
					{Key: "peerorganizations", Value: t.Blockchain.Organizations.Paths.PeerOrganizations},
					{Key: "ordererorganizations", Value: t.Blockchain.Organizations.Paths.OrdererOrganizations},
				}},
			}},
		}},
		{Key: "kubernetes", Value: yaml.MapSlice{
			{Key: "paths", Value: yaml.MapSlice{
				{Key: "root", Value: t.Kubernetes.Paths.Root},
				{Key: "peerorganizations", Value: t.Kubernetes.Paths.PeerOrganizations},
				{Key: "ordererorganizations", Value: t.Kubernetes.Paths.OrdererOrganizations},
			}},
		}},
	}
}
