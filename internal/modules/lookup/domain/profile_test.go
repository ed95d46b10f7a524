package domain

import "testing"

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("id", `{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`, "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Notch" || p.ID != "id" {
		t.Errorf("unexpected profile %+v", p)
	}
}

func TestParseProfile_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":      `<html>`,
		"missing field": `{"id":"x"}`,
		"wrong type":    `{"name":42}`,
		"empty name":    `{"name":""}`,
	}

	for name, body := range tests {
		if _, err := ParseProfile("id", body, "name"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
