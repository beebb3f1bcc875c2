package orchestrator

import (
	"context"
	"fmt"

	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/core"
)

// resolveConfig starts from the default configuration table, then
// overlays repo config, stored memory-rules, installation defaults, and
// rules_override in that order, collecting warnings for fields any layer
// rejected rather than failing the run.
func (o *Orchestrator) resolveConfig(ctx context.Context, j run) (*core.ResolvedConfig, []string, error) {
	resolved := o.baselineConfig()
	var warnings []string

	if j.worktreePath != "" {
		if err := o.refreshRepoConfigFromCheckout(ctx, j); err != nil {
			return nil, nil, err
		}
	}

	repoCfg, repoWarnings, err := o.store.GetRepoConfig(ctx, j.repo.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: load repo config: %w", err)
	}
	warnings = append(warnings, repoWarnings...)
	warnings = append(warnings, resolved.Merge(repoCfg)...)

	memoryRules, err := o.store.GetMemoryRules(ctx, j.repo.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: load memory rules: %w", err)
	}
	warnings = append(warnings, resolved.Merge(memoryRules)...)

	instDefaults, err := o.store.GetInstallationDefaults(ctx, j.job.InstallationID)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: load installation defaults: %w", err)
	}
	warnings = append(warnings, resolved.Merge(instDefaults)...)

	if len(j.job.RulesOverride) > 0 {
		override, overrideWarnings := repoConfigFromOverride(j.job.RulesOverride)
		warnings = append(warnings, overrideWarnings...)
		warnings = append(warnings, resolved.Merge(override)...)
	}

	return resolved, warnings, nil
}

// refreshRepoConfigFromCheckout reads `.grepiku.yml` from the freshly
// checked-out worktree (config resolution step 4) and persists it, so
// resolveConfig's GetRepoConfig call below always sees whatever the repo's
// HEAD currently carries rather than a stale stored copy. A repo with no
// config file is not an error: LoadRepoConfig returns an empty string and
// the run proceeds on whatever was last persisted (or the baseline).
func (o *Orchestrator) refreshRepoConfigFromCheckout(ctx context.Context, j run) error {
	rawYAML, loadWarnings, err := config.LoadRepoConfig(j.worktreePath)
	if err != nil {
		return fmt.Errorf("orchestrator: load repo config from checkout: %w", err)
	}
	if rawYAML == "" {
		return nil
	}
	if err := o.store.SaveRepoConfig(ctx, j.repo.ID, rawYAML, loadWarnings); err != nil {
		return fmt.Errorf("orchestrator: save repo config: %w", err)
	}
	return nil
}

// repoConfigFromOverride adapts the job's free-form rules_override map into
// a RepoConfig so it can go through the same Merge path as every other
// overlay, rather than needing bespoke field-by-field handling.
func repoConfigFromOverride(override map[string]any) (*core.RepoConfig, []string) {
	cfg := core.DefaultRepoConfig()
	var warnings []string

	if v, ok := override["strictness"]; ok {
		if s, ok := v.(string); ok {
			cfg.Strictness = s
		} else {
			warnings = append(warnings, "rules_override.strictness must be a string")
		}
	}
	if v, ok := override["summary_only"]; ok {
		if b, ok := v.(bool); ok {
			cfg.SummaryOnly = b
		} else {
			warnings = append(warnings, "rules_override.summary_only must be a bool")
		}
	}
	if v, ok := override["output_destination"]; ok {
		if s, ok := v.(string); ok {
			cfg.OutputDestination = s
		} else {
			warnings = append(warnings, "rules_override.output_destination must be a string")
		}
	}
	if v, ok := override["comment_types"]; ok {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				if s, ok := item.(string); ok {
					cfg.CommentTypes = append(cfg.CommentTypes, s)
				}
			}
		} else {
			warnings = append(warnings, "rules_override.comment_types must be a list of strings")
		}
	}
	return cfg, warnings
}
