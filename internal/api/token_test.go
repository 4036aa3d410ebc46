package api

import "testing"

func TestBasicToken(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{
			name:     "default admin pair",
			username: "admin",
			password: "admin123",
			want:     "YWRtaW46YWRtaW4xMjM=",
		},
		{
			name:     "empty pair",
			username: "",
			password: "",
			want:     "Og==",
		},
		{
			name:     "password containing colon",
			username: "alice",
			password: "p:ss",
			want:     "YWxpY2U6cDpzcw==",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicToken(tt.username, tt.password)
			if got != tt.want {
				t.Errorf("BasicToken(%q, %q) = %q, want %q",
					tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestBasicTokenDeterministic(t *testing.T) {
	a := BasicToken("admin", "admin123")
	b := BasicToken("admin", "admin123")
	if a != b {
		t.Errorf("same pair produced different tokens: %q vs %q", a, b)
	}
}
