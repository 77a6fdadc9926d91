// Package config loads chainspawn settings from file, environment and
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings is the resolved chainspawn configuration.
type Settings struct {
	Ports     PortsSettings     `mapstructure:"ports"`
	Node      NodeSettings      `mapstructure:"node"`
	Workspace WorkspaceSettings `mapstructure:"workspace"`
}

// PortsSettings defines the allowed host port window for node containers.
type PortsSettings struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// NodeSettings carries the static parameters of a node launch.
type NodeSettings struct {
	Prefix string `mapstructure:"prefix"`
	Image  string `mapstructure:"image"`
	// Network selects the chain the node joins (first positional arg).
	Network string `mapstructure:"network"`
	// DataPath is the fixed in-container mount point for node data.
	DataPath      string `mapstructure:"data_path"`
	BootstrapPeer string `mapstructure:"bootstrap_peer"`
	LogFlag       string `mapstructure:"log_flag"`
}

// WorkspaceSettings controls where node directories are provisioned.
type WorkspaceSettings struct {
	Root     string `mapstructure:"root"`
	DataRoot string `mapstructure:"data_root"`
	// PerNodeData gives each node its own subdirectory under DataRoot
	// instead of sharing the root as a single mount path.
	PerNodeData bool `mapstructure:"per_node_data"`
}

// Load reads chainspawn.yaml from the working directory or ~/.chainspawn,
// applies CHAINSPAWN_* environment overrides, and validates the result.
// A missing config file is fine; defaults apply.
func Load() (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("chainspawn")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".chainspawn"))
	}

	v.SetEnvPrefix("CHAINSPAWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ports.min", 18081)
	v.SetDefault("ports.max", 18200)
	v.SetDefault("node.prefix", "Node")
	v.SetDefault("node.image", "chainspawn/testnode:latest")
	v.SetDefault("node.network", "testnet")
	v.SetDefault("node.data_path", "/root/node-data")
	v.SetDefault("node.bootstrap_peer", "seed01.testnet.chainspawn.io:18080")
	v.SetDefault("node.log_flag", "--log-level=1")
	v.SetDefault("workspace.root", ".")
	v.SetDefault("workspace.data_root", "data")
	v.SetDefault("workspace.per_node_data", true)
}

// Validate checks that the settings are internally consistent.
func (s *Settings) Validate() error {
	if s.Ports.Min < 1 || s.Ports.Max > 65535 || s.Ports.Min > s.Ports.Max {
		return fmt.Errorf("invalid port window [%d, %d]", s.Ports.Min, s.Ports.Max)
	}

	required := map[string]string{
		"node.prefix":         s.Node.Prefix,
		"node.image":          s.Node.Image,
		"node.network":        s.Node.Network,
		"node.data_path":      s.Node.DataPath,
		"workspace.root":      s.Workspace.Root,
		"workspace.data_root": s.Workspace.DataRoot,
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missing, ", "))
	}

	return nil
}
