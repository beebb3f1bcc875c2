package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/grepiku/internal/core"
)

const repoConfigFilename = ".grepiku.yml"

// LoadRepoConfig reads <repoPath>/.grepiku.yml, the config resolution
// cascade's first overlay (config resolution step 4). A missing file is not
// an error — rawYAML returns empty and the run proceeds on whatever config
// was last persisted for the repo. A present-but-unparseable file is also
// not fatal: it produces a warning instead of aborting the run, matching
// the "invalid config keys never fatal" rule.
func LoadRepoConfig(repoPath string) (rawYAML string, warnings []string, err error) {
	configPath := filepath.Join(repoPath, repoConfigFilename)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}

	var probe core.RepoConfig
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return "", []string{fmt.Sprintf("%s is not valid YAML: %v", repoConfigFilename, err)}, nil
	}
	return string(data), nil, nil
}
