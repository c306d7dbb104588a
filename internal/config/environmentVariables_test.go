package config

import "testing"

func TestEnvOr(t *testing.T) {
	t.Setenv("VECTOR_INDEX_BACKEND", "qdrant")
	if got := envOr("VECTOR_INDEX_BACKEND", "memory"); got != "qdrant" {
		t.Errorf("envOr ignored the environment, got %q", got)
	}
	if got := envOr("VECTOR_INDEX_BACKEND_UNSET", "memory"); got != "memory" {
		t.Errorf("envOr did not fall back, got %q", got)
	}
}
