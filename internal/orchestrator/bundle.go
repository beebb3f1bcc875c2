package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sevigo/grepiku/internal/contextpack"
)

// writeBundleInputs lays out the persisted-state bundle's input side
// under bundleDir: pr.md, diff.patch, changed_files.json, bot_config.json,
// context_pack.json, config_warnings.json.
func writeBundleInputs(bundleDir string, j *run, pack *contextpack.Pack) error {
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return fmt.Errorf("orchestrator: create bundle dir: %w", err)
	}

	prMD := fmt.Sprintf("# %s\n\n%s\n", j.pr.Title, j.pr.Body)
	if err := os.WriteFile(filepath.Join(bundleDir, "pr.md"), []byte(prMD), 0o644); err != nil {
		return fmt.Errorf("write pr.md: %w", err)
	}
	if err := os.WriteFile(filepath.Join(bundleDir, "diff.patch"), []byte(j.diffPatch), 0o644); err != nil {
		return fmt.Errorf("write diff.patch: %w", err)
	}
	if err := writeJSON(filepath.Join(bundleDir, "changed_files.json"), j.changedFiles); err != nil {
		return fmt.Errorf("write changed_files.json: %w", err)
	}
	if err := writeJSON(filepath.Join(bundleDir, "bot_config.json"), j.resolved); err != nil {
		return fmt.Errorf("write bot_config.json: %w", err)
	}
	if err := writeJSON(filepath.Join(bundleDir, "context_pack.json"), pack); err != nil {
		return fmt.Errorf("write context_pack.json: %w", err)
	}
	if err := writeJSON(filepath.Join(bundleDir, "config_warnings.json"), j.warnings); err != nil {
		return fmt.Errorf("write config_warnings.json: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// readStageJSON decodes a stage's out/<file>.json into dst, per the
// output layout. Callers call it after RunStage returned no error; a missing
// file is reported as a read error.
func readStageJSON(outDir, filename string, dst any) error {
	data, err := os.ReadFile(filepath.Join(outDir, filename))
	if err != nil {
		return fmt.Errorf("orchestrator: read %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("orchestrator: decode %s: %w", filename, err)
	}
	return nil
}
