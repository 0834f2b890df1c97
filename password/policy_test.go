package password

import "testing"

func TestPolicy_DefaultAcceptsLongEnough(t *testing.T) {
	p := Policy{}
	p.ApplyDefaults()
	if v := p.Check("longenough"); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}
}

func TestPolicy_TooShort(t *testing.T) {
	p := Policy{}
	p.ApplyDefaults()
	v := p.Check("short")
	if len(v) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(v))
	}
	if v[0].Code != CodePasswordTooShort {
		t.Errorf("expected %s, got %s", CodePasswordTooShort, v[0].Code)
	}
}

func TestPolicy_AllRules(t *testing.T) {
	p := Policy{
		MinLength:              8,
		RequireDigit:           true,
		RequireLowercase:       true,
		RequireUppercase:       true,
		RequireNonAlphanumeric: true,
	}

	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{"acceptable", "Secr3t!pw", nil},
		{"no digit", "Secret!pwd", []string{CodePasswordRequiresDigit}},
		{"no upper", "secr3t!pw", []string{CodePasswordRequiresUpper}},
		{"no lower", "SECR3T!PW", []string{CodePasswordRequiresLower}},
		{"no symbol", "Secr3tpwd", []string{CodePasswordRequiresNonAlnum}},
		{"everything wrong", "aaaaaaaa", []string{
			CodePasswordRequiresDigit,
			CodePasswordRequiresUpper,
			CodePasswordRequiresNonAlnum,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Check(tt.password)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d violations, got %d: %v", len(tt.want), len(got), got)
			}
			for i, code := range tt.want {
				if got[i].Code != code {
					t.Errorf("violation %d: expected %s, got %s", i, code, got[i].Code)
				}
			}
		})
	}
}
