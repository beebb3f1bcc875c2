package config

import "testing"

func TestAIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  AIConfig
		wantErr bool
	}{
		{
			name:   "no comparison models configured",
			config: AIConfig{},
		},
		{
			name: "valid comparison config",
			config: AIConfig{
				MaxComparisonModels: 3,
				ComparisonModels:    []string{"gemini-1.5-pro", "deepseek-chat"},
			},
		},
		{
			name: "too many comparison models",
			config: AIConfig{
				MaxComparisonModels: 3,
				ComparisonModels:    []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
			},
			wantErr: true,
		},
		{
			name: "max comparison models exceeds cap",
			config: AIConfig{
				MaxComparisonModels: 11,
				ComparisonModels:    []string{"gemini-pro"},
			},
			wantErr: true,
		},
		{
			name: "duplicate comparison model",
			config: AIConfig{
				MaxComparisonModels: 3,
				ComparisonModels:    []string{"gemini-pro", "gemini-pro"},
			},
			wantErr: true,
		},
		{
			name: "empty comparison model name",
			config: AIConfig{
				MaxComparisonModels: 3,
				ComparisonModels:    []string{"gemini-pro", "  "},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("AIConfig.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetrievalGraphDefaults_ResolvedConfigBaseline(t *testing.T) {
	t.Run("no overrides returns the built-in defaults", func(t *testing.T) {
		base := RetrievalGraphDefaults{}.ResolvedConfigBaseline()
		if base.Retrieval.TopK != 18 {
			t.Errorf("TopK = %d, want 18", base.Retrieval.TopK)
		}
		if base.Graph.MaxDepth != 5 {
			t.Errorf("MaxDepth = %d, want 5", base.Graph.MaxDepth)
		}
	})

	t.Run("overrides win over the built-in defaults", func(t *testing.T) {
		d := RetrievalGraphDefaults{
			Retrieval: RetrievalDefaults{TopK: 30},
			Graph:     GraphDefaults{MaxDepth: 9, ExcludeDirs: []string{"vendor"}},
		}
		base := d.ResolvedConfigBaseline()
		if base.Retrieval.TopK != 30 {
			t.Errorf("TopK = %d, want 30", base.Retrieval.TopK)
		}
		if base.Retrieval.MaxPerPath != 4 {
			t.Errorf("MaxPerPath = %d, want unchanged default 4", base.Retrieval.MaxPerPath)
		}
		if base.Graph.MaxDepth != 9 {
			t.Errorf("MaxDepth = %d, want 9", base.Graph.MaxDepth)
		}
		if len(base.Graph.ExcludeDirs) != 1 || base.Graph.ExcludeDirs[0] != "vendor" {
			t.Errorf("ExcludeDirs = %v, want [vendor]", base.Graph.ExcludeDirs)
		}
	})
}
