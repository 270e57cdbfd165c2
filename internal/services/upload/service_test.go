package upload

import (
	"strings"
	"testing"

	"github.com/maroso-log/devtrack/internal/config"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"comprovante.pdf", "comprovante.pdf"},
		{"nota fiscal #38435.pdf", "nota_fiscal_38435.pdf"},
		{"foto++da++carga.jpg", "foto_da_carga.jpg"},
		{"___inicio_e_fim___.png", "inicio_e_fim.png"},
		{"relatório-mensal.pdf", "relat_rio-mensal.pdf"},
		{"a b/c\\d.txt", "a_b_c_d.txt"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilenameCapsBaseLength(t *testing.T) {
	long := strings.Repeat("a", 120) + ".pdf"
	got := SanitizeFilename(long)
	if len(got) != 80+len(".pdf") {
		t.Errorf("Base should cap at 80 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("Extension must survive the cap: %q", got)
	}
}

func TestUploadDegradesWithoutCredentials(t *testing.T) {
	c := NewClient(config.MediaConfig{})

	if c.Configured() {
		t.Error("Client without credentials must not report configured")
	}
	if url := c.Upload([]byte("data"), "file.pdf"); url != "" {
		t.Errorf("Unconfigured upload should return empty URL, got %q", url)
	}
	if url := c.Upload(nil, "file.pdf"); url != "" {
		t.Errorf("Empty payload should return empty URL, got %q", url)
	}
}
