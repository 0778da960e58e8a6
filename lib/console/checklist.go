// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"strings"
)

// Status is the outcome of one checklist item.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// Check is one line of a checklist.
type Check struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Pass creates a passing check.
func Pass(name, message string) Check {
	return Check{Name: name, Status: StatusPass, Message: message}
}

// Fail creates a failing check.
func Fail(name, message string) Check {
	return Check{Name: name, Status: StatusFail, Message: message}
}

// Warn creates a warning check. Warnings do not fail a checklist.
func Warn(name, message string) Check {
	return Check{Name: name, Status: StatusWarn, Message: message}
}

// Skip creates a skipped check.
func Skip(name, message string) Check {
	return Check{Name: name, Status: StatusSkip, Message: message}
}

// Checklist prints checks one per line and reports whether any failed.
func (p *Printer) Checklist(checks []Check) (failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, check := range checks {
		label := fmt.Sprintf("[%-4s]", strings.ToUpper(string(check.Status)))
		switch check.Status {
		case StatusPass:
			label = p.styles.success.Render(label)
		case StatusFail:
			label = p.styles.fail.Render(label)
			failed = true
		case StatusWarn:
			label = p.styles.warn.Render(label)
		default:
			label = p.styles.dim.Render(label)
		}
		fmt.Fprintf(p.out, "%s  %-24s  %s\n", label, check.Name, check.Message)
	}
	return failed
}
