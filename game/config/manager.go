package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"github.com/wricardo/mcp-training/tileboard/game/service"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// supportedExtensions in lookup order for names given without an extension
var supportedExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles board configuration loading and caching
type Manager struct {
	configDir     string
	defaultName   string
	defaultConfig *engine.BoardConfig
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
	}

	m.loadDefaultConfig()

	return m, nil
}

// LoadConfig loads a configuration by name. The name may carry a
// .json, .yaml or .yml extension; without one each is tried in turn.
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	key := configKey(name)

	m.mu.RLock()
	if config, exists := m.configs[key]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[key]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}

	m.configs[key] = config
	return config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := []*service.ConfigInfo{}
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isSupported(entry.Name()) {
			continue
		}

		id := configKey(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			// Skip invalid configs
			continue
		}
		seen[id] = true

		configs = append(configs, &service.ConfigInfo{
			Filename:       entry.Name(),
			ConfigID:       id,
			Name:           config.Name,
			Description:    config.Description,
			BoardSize:      config.BoardSize,
			ComponentCount: len(config.Components),
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name. The choice survives
// RefreshCache as long as the file still loads.
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = name
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached configurations and re-resolves the default,
// picking up files edited or added on disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// Count returns the number of cached configurations
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// SaveConfig validates a configuration and writes it to disk. A .yaml or
// .yml name is written as YAML, anything else as JSON.
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	key := configKey(name)
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}

	filename := name
	ext := strings.ToLower(filepath.Ext(name))
	if !isSupported(name) {
		ext = ".json"
		filename = key + ext
	}

	var data []byte
	var err error
	if ext == ".json" {
		data, err = json.MarshalIndent(config, "", "  ")
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, filename)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[key] = config
	m.mu.Unlock()

	return nil
}

// readConfig reads, decodes and validates a config file. Callers hold m.mu.
func (m *Manager) readConfig(name string) (*engine.BoardConfig, error) {
	candidates := []string{name}
	if !isSupported(name) {
		candidates = candidates[:0]
		for _, ext := range supportedExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, filename := range candidates {
		data, err := os.ReadFile(filepath.Join(m.configDir, filename))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		config, err := engine.DecodeBoardConfig(data, filepath.Ext(filename))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if err := engine.ValidateBoardConfig(config); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return config, nil
	}

	return nil, ErrConfigNotFound
}

// loadDefaultConfig picks the name given to SetDefault (or classic), then
// the first valid config on disk, then the built-in classic board.
func (m *Manager) loadDefaultConfig() {
	m.mu.RLock()
	name := m.defaultName
	m.mu.RUnlock()
	if name == "" {
		name = "classic"
	}

	config, err := m.LoadConfig(name)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr == nil && len(configs) > 0 {
			config, err = m.LoadConfig(configs[0].Filename)
		}
	}
	if err != nil || config == nil {
		config = engine.DefaultBoardConfig()
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

func isSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// configKey strips a supported extension so "wide", "wide.yaml" and
// "wide.yml" share a cache entry.
func configKey(name string) string {
	if isSupported(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
