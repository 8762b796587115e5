package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/misiddons/bookdb/internal/library"
)

// Config describes the audit run a report came from.
type Config struct {
	Table     string `yaml:"table"`
	Timestamp string `yaml:"timestamp"`
	Findings  int    `yaml:"findings"`
}

// Finding is one discrepancy as serialized into the report file.
type Finding struct {
	Row            int     `yaml:"row"`
	Field          string  `yaml:"field"`
	Stored         string  `yaml:"stored"`
	Canonical      string  `yaml:"canonical"`
	Kind           string  `yaml:"kind"`
	Classification string  `yaml:"classification"`
	Similarity     float64 `yaml:"similarity,omitempty"`
}

// AuditReport is the complete YAML document.
type AuditReport struct {
	Config   Config    `yaml:"config"`
	Findings []Finding `yaml:"findings"`
}

// New builds a report document from audit findings.
func New(table string, findings []library.Discrepancy) AuditReport {
	doc := AuditReport{
		Config: Config{
			Table:     table,
			Timestamp: time.Now().Format("2006-01-02_15-04-05"),
			Findings:  len(findings),
		},
		Findings: make([]Finding, 0, len(findings)),
	}
	for _, f := range findings {
		doc.Findings = append(doc.Findings, Finding{
			Row:            f.RowIndex,
			Field:          f.Field,
			Stored:         f.Stored,
			Canonical:      f.Canonical,
			Kind:           f.Kind,
			Classification: f.Classification,
			Similarity:     f.Similarity,
		})
	}
	return doc
}

// Save writes the report as YAML to path.
func Save(doc AuditReport, path string) error {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
