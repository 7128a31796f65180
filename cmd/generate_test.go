package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintGenerated(t *testing.T) {
	answer := `apiVersion: v1
kind: Service
metadata:
  name: web
---
comments:
- "Add an Ingress to expose the service"
`
	var buf bytes.Buffer
	if err := printGenerated(&buf, answer); err != nil {
		t.Fatalf("printGenerated() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "kind: Service") {
		t.Errorf("expected the manifest in output:\n%s", out)
	}
	if !strings.HasSuffix(out, "# Add an Ingress to expose the service\n") {
		t.Errorf("expected comments last:\n%s", out)
	}
}

func TestPrintGeneratedRejectsBadManifest(t *testing.T) {
	var buf bytes.Buffer
	if err := printGenerated(&buf, "metadata:\n  name: web\n"); err == nil {
		t.Error("expected an error for a manifest without apiVersion and kind")
	}
}
