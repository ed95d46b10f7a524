package domain

import "testing"

func TestNewPongResult(t *testing.T) {
	tests := []struct {
		content  string
		respond  bool
		response string
	}{
		{"Hello 🏓 world", true, "Pong 🏓"},
		{"🏓", true, "Pong 🏓"},
		{"Hello world", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		result := NewPongResult(tt.content)
		if result.ShouldRespond != tt.respond {
			t.Errorf("%q: expected ShouldRespond %v, got %v", tt.content, tt.respond, result.ShouldRespond)
		}
		if result.Response != tt.response {
			t.Errorf("%q: expected response %q, got %q", tt.content, tt.response, result.Response)
		}
	}
}
