package generator

import (
	"fmt"
	"sync"
)

// Severity ranks a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one non-fatal finding collected during a run.
type Diagnostic struct {
	Severity Severity
	// Stage is the pipeline stage that produced the finding ("render",
	// "write").
	Stage   string
	File    string
	Message string
}

func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Stage, d.File, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Stage, d.Message)
}

// Diagnostics is the append-only finding list for one run. It is safe for
// concurrent appends from parallel rendering and drained once at the end.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, diag)
}

// Warnf appends a warning.
func (d *Diagnostics) Warnf(stage, file, format string, args ...any) {
	d.Add(Diagnostic{Severity: SeverityWarning, Stage: stage, File: file, Message: fmt.Sprintf(format, args...)})
}

// Errorf appends an isolated (non-fatal) error.
func (d *Diagnostics) Errorf(stage, file, format string, args ...any) {
	d.Add(Diagnostic{Severity: SeverityError, Stage: stage, File: file, Message: fmt.Sprintf(format, args...)})
}

// Items returns a copy of the collected diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// HasErrors reports whether any error-level diagnostic was collected.
func (d *Diagnostics) HasErrors() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, it := range d.items {
		if it.Severity == SeverityError {
			return true
		}
	}
	return false
}
