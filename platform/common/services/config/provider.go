/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hyperledger-labs/kubechain/pkg/utils/errors"
	viperutil "github.com/hyperledger-labs/kubechain/platform/common/services/config/viper"
	"github.com/hyperledger-labs/kubechain/platform/common/services/logging"
	"github.com/miracl/conflate"
	"github.com/spf13/viper"
)

const (
	CmdRoot = "kubechain"
	// CfgPathEnv overrides every other location searched for kubechain.yaml
	CfgPathEnv   = "KUBECHAIN_CFG_PATH"
	OfficialPath = "/etc/kubechain"
)

var logger = logging.MustGetLogger("kubechain.config")

// Provider serves kubechain settings out of a viper backend.
type Provider struct {
	confPath string
	baseDir  string
	Backend  *viper.Viper

	mergeConfigMutex sync.Mutex
}

// NewProvider reads kubechain.yaml from confPath, or from the directory named
// by KUBECHAIN_CFG_PATH, or from the working directory.
func NewProvider(confPath string) (*Provider, error) {
	p := &Provider{
		confPath: confPath,
	}
	if err := p.load(); err != nil {
		return nil, err
	}

	return p, nil
}

// NewProviderFromFiles conflates the given YAML, JSON or TOML documents into
// a single settings tree. Relative paths resolve against the first file.
func NewProviderFromFiles(files ...string) (*Provider, error) {
	if len(files) == 0 {
		return nil, errors.New("no settings files given")
	}
	c, err := conflate.FromFiles(files...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed conflating settings files %v", files)
	}
	raw, err := c.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "failed marshalling conflated settings")
	}

	p := &Provider{
		baseDir: filepath.Dir(files[0]),
		Backend: viper.New(),
	}
	p.Backend.SetConfigType("json")
	if err := p.Backend.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, errors.WithMessagef(err, "error when reading conflated settings")
	}
	if err := p.substituteEnv(); err != nil {
		return nil, err
	}
	logger.Debugf("settings conflated from %v", files)

	return p, nil
}

// NewProviderFromSettings serves an in-memory copy of s.
func NewProviderFromSettings(s Settings) *Provider {
	p := &Provider{Backend: viper.New()}
	// a map of plain strings always merges
	_ = p.Backend.MergeConfigMap(s.toMap())
	return p
}

// NewDefaultProvider serves DefaultSettings.
func NewDefaultProvider() *Provider {
	return NewProviderFromSettings(DefaultSettings())
}

// Get returns the raw value stored under the given key. The key may be
// written as a query ("$.paths.kubernetes") or as a plain dotted key.
func (p *Provider) Get(key string) interface{} {
	return p.Backend.Get(NormalizeKey(key))
}

// GetString returns the value under key without surrounding whitespace,
// the same way Settings decodes it.
func (p *Provider) GetString(key string) string {
	return strings.TrimSpace(p.Backend.GetString(NormalizeKey(key)))
}

func (p *Provider) IsSet(key string) bool {
	return p.Backend.IsSet(NormalizeKey(key))
}

func (p *Provider) UnmarshalKey(key string, rawVal interface{}) error {
	return viperutil.EnhancedExactUnmarshal(p.Backend, NormalizeKey(key), rawVal)
}

// Settings decodes the whole document.
func (p *Provider) Settings() (Settings, error) {
	var s Settings
	if err := viperutil.EnhancedExactUnmarshal(p.Backend, "", &s); err != nil {
		return Settings{}, errors.Wrap(err, "failed decoding settings")
	}
	return s, nil
}

// GetPath returns the value under key, resolving a relative path against
// the directory of the settings file.
func (p *Provider) GetPath(key string) string {
	path := p.GetString(key)
	if path == "" {
		return ""
	}

	return TranslatePath(p.dir(), path)
}

func (p *Provider) TranslatePath(path string) string {
	if path == "" {
		return ""
	}

	return TranslatePath(p.dir(), path)
}

func (p *Provider) ConfigFileUsed() string {
	return p.Backend.ConfigFileUsed()
}

func (p *Provider) MergeConfig(raw []byte) error {
	// only one writer at the time
	p.mergeConfigMutex.Lock()
	defer p.mergeConfigMutex.Unlock()

	if len(p.Backend.ConfigFileUsed()) == 0 {
		p.Backend.SetConfigType("yaml")
	}
	return p.Backend.MergeConfig(bytes.NewReader(raw))
}

func (p *Provider) dir() string {
	if used := p.Backend.ConfigFileUsed(); len(used) != 0 {
		return filepath.Dir(used)
	}
	if len(p.baseDir) != 0 {
		return p.baseDir
	}
	return "."
}

func (p *Provider) load() error {
	p.Backend = viper.New()
	err := p.initViper(p.Backend, CmdRoot)
	if err != nil {
		return err
	}

	err = p.Backend.ReadInConfig() // Find and read the config file
	if err != nil {                // Handle errors reading the config file
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return errors.Errorf("Could not find config file. "+
				"Please make sure that %s is set to a path "+
				"which contains %s.yaml", CfgPathEnv, CmdRoot)
		}
		return errors.WithMessagef(err, "error when reading %s config file", CmdRoot)
	}

	if err := p.substituteEnv(); err != nil {
		return err
	}

	logger.Debugf("settings read from [%s]", p.Backend.ConfigFileUsed())

	return nil
}

// Manually override keys if the respective environment variable is set, because viper doesn't do
// that for UnmarshalKey values.
// Example: KUBECHAIN_PATHS_KUBERNETES sets paths.kubernetes.
func (p *Provider) substituteEnv() error {
	prefix := strings.ToUpper(CmdRoot) + "_"
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, prefix) || strings.HasPrefix(e, CfgPathEnv+"=") {
			continue
		}

		env := strings.Split(e, "=")
		if len(env[1]) == 0 {
			continue
		}
		key, val := env[0], strings.Join(env[1:], "=")

		noprefix := strings.TrimPrefix(key, prefix)
		key = strings.ToLower(strings.ReplaceAll(noprefix, "_", "."))

		k := p.Backend.GetStringMap(key)
		if len(k) > 0 {
			logger.Debugf("skipping %s: cannot override maps", env[0])
			continue
		}

		// nested key
		keys := strings.Split(key, ".")
		parent := strings.Join(keys[:len(keys)-1], ".")
		if len(parent) == 0 || !p.Backend.IsSet(parent) {
			logger.Debugf("applying %s - parent not found in %s.yaml: %s", env[0], CmdRoot, parent)
			p.Backend.Set(key, val)
			continue
		}

		root := p.Backend.GetStringMap(keys[0])
		if err := setDeepValue(root, keys, val); err != nil {
			return errors.Wrap(err, "error when substituting")
		}
		p.Backend.Set(keys[0], root)
		logger.Debugf("applying %s", env[0])
	}
	return nil
}

// Function to set the value at the deepest level
func setDeepValue(m map[string]any, keys []string, value any) error {
	// key = root but we don't have the map by reference
	if len(keys) < 2 {
		return errors.New("can't set root key")
	}

	current := m
	// traverse to the last map
	for i := 1; i < len(keys)-1; i++ {
		key := keys[i]
		nextMap, ok := current[key].(map[string]any)
		if !ok {
			return errors.New("expected map at key " + key)
		}
		current = nextMap
	}
	lastKey := keys[len(keys)-1]
	current[lastKey] = value

	return nil
}

// initViper establishes the paths consulted to find kubechain.yaml, in
// priority order: confPath, then KUBECHAIN_CFG_PATH alone, or else the
// working directory followed by OfficialPath.
func (p *Provider) initViper(v *viper.Viper, configName string) error {
	if len(p.confPath) != 0 {
		v.AddConfigPath(p.confPath)
	}

	var altPath = os.Getenv(CfgPathEnv)
	if altPath != "" {
		// If the user has overridden the path with an envvar, its the only path
		// we will consider
		if !dirExists(altPath) {
			return errors.Errorf("%s %s does not exist", CfgPathEnv, altPath)
		}

		v.AddConfigPath(altPath)
	} else {
		v.AddConfigPath("./")

		if dirExists(OfficialPath) {
			v.AddConfigPath(OfficialPath)
		}
	}

	v.SetConfigName(configName)

	return nil
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

func TranslatePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(base, p)
}
