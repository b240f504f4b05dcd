package gather

import (
	"testing"

	"github.com/medclarify/medclarify/internal/model"
)

func TestTrustList_Allows(t *testing.T) {
	trust := NewTrustList(model.DefaultTrustedDomains)

	tests := []struct {
		name string
		link string
		want bool
	}{
		{"exact domain", "https://nih.gov/article", true},
		{"subdomain", "https://www.mayoclinic.org/diseases/garlic", true},
		{"deep subdomain", "https://pubmed.ncbi.nlm.nih.gov/12345/", true},
		{"untrusted domain", "https://example.com/health", false},
		{"suffix is not subdomain", "https://fakenih.gov/article", false},
		{"embedded trusted name", "https://nih.gov.evil.com/article", false},
		{"empty link", "", false},
		{"scheme-less link", "nih.gov/article", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trust.Allows(tt.link); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestTrustList_NormalizesDomains(t *testing.T) {
	trust := NewTrustList([]string{" NIH.gov ", "", "cdc.gov"})

	if trust.Len() != 2 {
		t.Errorf("Expected 2 domains after normalization, got %d", trust.Len())
	}
	if !trust.Allows("https://nih.gov/page") {
		t.Error("Expected normalized domain to match")
	}
}
