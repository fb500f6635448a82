package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "embedding",
			objectType:  "openai",
			identifier:  "abc123",
			paramsKey:   nil,
			expectedKey: "quizbuilder:embedding:openai:abc123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "session",
			objectType:  "state",
			identifier:  "01H",
			paramsKey:   []string{},
			expectedKey: "quizbuilder:session:state:01H",
		},
		{
			name:        "with one paramsKey",
			serviceName: "quiz",
			objectType:  "built",
			identifier:  "xyz",
			paramsKey:   []string{"v2"},
			expectedKey: "quizbuilder:quiz:built:xyz:v2",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "corpus",
			objectType:  "segments",
			identifier:  "doc",
			paramsKey:   []string{"p1", "p2", "p3"},
			expectedKey: "quizbuilder:corpus:segments:doc:p1_p2_p3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}
