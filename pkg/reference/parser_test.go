package reference

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		wantRefCount    int
		wantCleanQuery string
		wantHasRefs     bool
	}{
		{"no references", "what is the weather theme?", 0, "what is the weather theme?", false},
		{"doc id reference", "@doc:abc-123 summarize this", 1, "summarize this", true},
		{"quoted title reference", `@doc:"Reading Preferences" summarize`, 1, "summarize", true},
		{"wiki link reference", "[[Bedtime Story]] list highlights", 1, "list highlights", true},
		{"multiple references", `@doc:abc-1 @doc:"Title" [[Wiki]] compare`, 3, "compare", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.query)
			if len(result.References) != tt.wantRefCount {
				t.Errorf("RefCount = %d, want %d", len(result.References), tt.wantRefCount)
			}
			if result.CleanQuery != tt.wantCleanQuery {
				t.Errorf("CleanQuery = %q, want %q", result.CleanQuery, tt.wantCleanQuery)
			}
			if result.HasRefs != tt.wantHasRefs {
				t.Errorf("HasRefs = %v, want %v", result.HasRefs, tt.wantHasRefs)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	refs := make([]ParsedReference, 5)
	if err := Validate(refs); err != nil {
		t.Errorf("5 refs should not error, got %v", err)
	}
	refs = make([]ParsedReference, 6)
	if err := Validate(refs); err == nil {
		t.Error("6 refs should error")
	}
}
