package dokploy

import "testing"

func TestEnvironment_Matches(t *testing.T) {
	tests := []struct {
		name string
		env  Environment
		id   string
		want bool
	}{
		{"environmentId key", Environment{EnvironmentID: "env-a"}, "env-a", true},
		{"id key", Environment{ID: "env-a"}, "env-a", true},
		{"mismatch", Environment{EnvironmentID: "env-a"}, "env-b", false},
		{"empty id never matches", Environment{EnvironmentID: ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Matches(tt.id); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
