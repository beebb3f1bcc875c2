package core

// RepoConfig is the parsed `.grepiku.yml` committed to a reviewed repository.
type RepoConfig struct {
	CustomInstructions []string `yaml:"custom_instructions"`
	ExcludeDirs        []string `yaml:"exclude_dirs"`
	ExcludeExts        []string `yaml:"exclude_exts"`
	Strictness         string   `yaml:"strictness"`
	CommentTypes       []string `yaml:"comment_types"`
	OutputDestination  string   `yaml:"output_destination"`
	SummaryOnly        bool     `yaml:"summary_only"`
	StatusCheckName    string   `yaml:"status_check_name"`
	StatusRequired     *bool    `yaml:"status_required"`
	PatternRepos       []string `yaml:"pattern_repos"`
	Triggers           *TriggerConfig `yaml:"triggers"`
}

// TriggerConfig configures which PR events should enqueue a review.
type TriggerConfig struct {
	ManualOnly      bool     `yaml:"manual_only"`
	IncludeLabels   []string `yaml:"include_labels"`
	ExcludeLabels   []string `yaml:"exclude_labels"`
	IncludeBranches []string `yaml:"include_branches"`
	ExcludeBranches []string `yaml:"exclude_branches"`
	IncludeAuthors  []string `yaml:"include_authors"`
	ExcludeAuthors  []string `yaml:"exclude_authors"`
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	AllowDrafts     bool     `yaml:"allow_drafts"`
}

// DefaultRepoConfig returns an empty RepoConfig: all fields zero/empty so
// ResolvedConfig's own defaults win unless the repo overrides them.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CustomInstructions: []string{},
		ExcludeDirs:        []string{},
		ExcludeExts:        []string{},
	}
}

// RetrievalConfig is the default configuration's `retrieval.*` table.
type RetrievalConfig struct {
	TopK               int
	MaxPerPath         int
	SemanticWeight     float64
	LexicalWeight      float64
	RRFWeight          float64
	ChangedPathBoost   float64
	SameDirectoryBoost float64
	PatternBoost       float64
	SymbolBoost        float64
	ChunkBoost         float64
}

// GraphTraversalConfig is the default configuration's `graph.traversal.*` table.
type GraphTraversalConfig struct {
	MaxDepth         int
	MinScore         float64
	MaxRelatedFiles  int
	MaxGraphLinks    int
	HardIncludeFiles int
	MaxNodesVisited  int
	ExcludeDirs      []string
}

// LimitsConfig is the default configuration's `limits.*` table.
type LimitsConfig struct {
	MaxInlineComments int
	MaxKeyConcerns    int
}

// CommentTypesConfig is the default configuration's `commentTypes.allow` destination allow-list.
type CommentTypesConfig struct {
	Allow []CommentKind
}

// OutputConfig is the default configuration's `output.*` table.
type OutputConfig struct {
	Destination string // "pr_body" | "comment" | "both"
	SummaryOnly bool
}

// StatusChecksConfig is the default configuration's `statusChecks.*` table.
type StatusChecksConfig struct {
	Name     string
	Required bool
}

// ResolvedConfig is the fully merged configuration for one review run:
// repo-level `.grepiku.yml`, stored memory-rules, installation defaults, UI
// overrides, and any `rules_override` passed with the job, in that overlay
// order.
type ResolvedConfig struct {
	Strictness    string // "low" | "medium" | "high"
	CommentTypes  CommentTypesConfig
	Output        OutputConfig
	Retrieval     RetrievalConfig
	Graph         GraphTraversalConfig
	Limits        LimitsConfig
	StatusChecks  StatusChecksConfig
	PatternRepos  []string
	Triggers      TriggerConfig
	CustomInstructions []string
	Warnings      []string
}

// DefaultResolvedConfig returns the baked-in default table, the seed that
// repo config, memory-rules, installation defaults, and rules_override
// overlay on top of, in that order.
func DefaultResolvedConfig() *ResolvedConfig {
	return &ResolvedConfig{
		Strictness: "medium",
		CommentTypes: CommentTypesConfig{
			Allow: []CommentKind{CommentInline, CommentSummary},
		},
		Output: OutputConfig{
			Destination: "comment",
			SummaryOnly: false,
		},
		Retrieval: RetrievalConfig{
			TopK:               18,
			MaxPerPath:         4,
			SemanticWeight:     0.62,
			LexicalWeight:      0.22,
			RRFWeight:          0.08,
			ChangedPathBoost:   0.16,
			SameDirectoryBoost: 0.08,
			PatternBoost:       0.03,
			SymbolBoost:        0.02,
			ChunkBoost:         0.03,
		},
		Graph: GraphTraversalConfig{
			MaxDepth:         5,
			MinScore:         0.07,
			MaxRelatedFiles:  28,
			MaxGraphLinks:    110,
			HardIncludeFiles: 8,
			MaxNodesVisited:  2600,
			ExcludeDirs:      []string{"internal_harness"},
		},
		Limits: LimitsConfig{
			MaxInlineComments: 20,
			MaxKeyConcerns:    5,
		},
		StatusChecks: StatusChecksConfig{
			Name:     "Grepiku Review",
			Required: false,
		},
	}
}

// Merge overlays a parsed RepoConfig onto the receiver, returning warnings
// for any field it could not apply.
func (rc *ResolvedConfig) Merge(repo *RepoConfig) []string {
	var warnings []string
	if repo == nil {
		return warnings
	}
	if repo.Strictness != "" {
		switch repo.Strictness {
		case "low", "medium", "high":
			rc.Strictness = repo.Strictness
		default:
			warnings = append(warnings, "invalid strictness value: "+repo.Strictness)
		}
	}
	if len(repo.CommentTypes) > 0 {
		var allow []CommentKind
		for _, c := range repo.CommentTypes {
			switch CommentKind(c) {
			case CommentInline, CommentSummary:
				allow = append(allow, CommentKind(c))
			default:
				warnings = append(warnings, "invalid comment_types entry: "+c)
			}
		}
		if len(allow) > 0 {
			rc.CommentTypes.Allow = allow
		}
	}
	if repo.OutputDestination != "" {
		switch repo.OutputDestination {
		case "pr_body", "comment", "both":
			rc.Output.Destination = repo.OutputDestination
		default:
			warnings = append(warnings, "invalid output_destination: "+repo.OutputDestination)
		}
	}
	rc.Output.SummaryOnly = repo.SummaryOnly
	if repo.StatusCheckName != "" {
		rc.StatusChecks.Name = repo.StatusCheckName
	}
	if repo.StatusRequired != nil {
		rc.StatusChecks.Required = *repo.StatusRequired
	}
	if len(repo.PatternRepos) > 0 {
		rc.PatternRepos = repo.PatternRepos
	}
	if repo.Triggers != nil {
		rc.Triggers = *repo.Triggers
	}
	if len(repo.CustomInstructions) > 0 {
		rc.CustomInstructions = repo.CustomInstructions
	}
	return warnings
}
