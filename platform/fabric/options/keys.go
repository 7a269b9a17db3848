/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package options

// Key identifies a leaf of the derived configuration.
type Key int

const (
	NameKey Key = iota
	VersionKey
	ConfigurationRoot
	ConfigurationConfigTx
	ConfigurationCryptoConfig
	BlockchainRoot
	BlockchainBin
	BlockchainChannels
	OrganizationsRoot
	OrganizationsPeerOrganizations
	OrganizationsOrdererOrganizations
	KubernetesRoot
	KubernetesPeerOrganizations
	KubernetesOrdererOrganizations
)

var keyPaths = [...]string{
	NameKey:                           "name",
	VersionKey:                        "version",
	ConfigurationRoot:                 "configuration.paths.root",
	ConfigurationConfigTx:             "configuration.paths.configtx",
	ConfigurationCryptoConfig:         "configuration.paths.cryptoconfig",
	BlockchainRoot:                    "blockchain.paths.root",
	BlockchainBin:                     "blockchain.paths.bin",
	BlockchainChannels:                "blockchain.paths.channels",
	OrganizationsRoot:                 "blockchain.organizations.paths.root",
	OrganizationsPeerOrganizations:    "blockchain.organizations.paths.peerorganizations",
	OrganizationsOrdererOrganizations: "blockchain.organizations.paths.ordererorganizations",
	KubernetesRoot:                    "kubernetes.paths.root",
	KubernetesPeerOrganizations:       "kubernetes.paths.peerorganizations",
	KubernetesOrdererOrganizations:    "kubernetes.paths.ordererorganizations",
}

// Keys lists every leaf in document order.
func Keys() []Key {
	keys := make([]Key, len(keyPaths))
	for i := range keyPaths {
		keys[i] = Key(i)
	}
	return keys
}

// ParseKey resolves a dotted path, with or without the leading "$.".
func ParseKey(s string) (Key, bool) {
	q, ok := parseQuery(s)
	if !ok {
		return 0, false
	}
	path := q.path()
	for i, p := range keyPaths {
		if path == p {
			return Key(i), true
		}
	}
	return 0, false
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyPaths) {
		return "unknown"
	}
	return keyPaths[k]
}

// Query returns the path expression selecting k.
func (k Key) Query() string {
	return "$." + k.String()
}

// Lookup returns the value of a leaf without evaluating a query.
func (o *Options) Lookup(k Key) string {
	t := &o.tree
	switch k {
	case NameKey:
		return t.Name
	case VersionKey:
		return t.Version
	case ConfigurationRoot:
		return t.Configuration.Paths.Root
	case ConfigurationConfigTx:
		return t.Configuration.Paths.ConfigTx
	case ConfigurationCryptoConfig:
		return t.Configuration.Paths.CryptoConfig
	case BlockchainRoot:
		return t.Blockchain.Paths.Root
	case BlockchainBin:
		return t.Blockchain.Paths.Bin
	case BlockchainChannels:
		return t.Blockchain.Paths.Channels
	case OrganizationsRoot:
		return t.Blockchain.Organizations.Paths.Root
	case OrganizationsPeerOrganizations:
		return t.Blockchain.Organizations.Paths.PeerOrganizations
	case OrganizationsOrdererOrganizations:
		return t.Blockchain.Organizations.Paths.OrdererOrganizations
	case KubernetesRoot:
		return t.Kubernetes.Paths.Root
	case KubernetesPeerOrganizations:
		return t.Kubernetes.Paths.PeerOrganizations
	case KubernetesOrdererOrganizations:
		return t.Kubernetes.Paths.OrdererOrganizations
	}
	return ""
}
