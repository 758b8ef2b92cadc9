package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for error classification. Nothing tagged with these is
// fatal to a run: a batch job over thousands of files must not abort on a
// single bad one.
var (
	// ErrNoMatch marks media files no sidecar candidate satisfied.
	ErrNoMatch = errors.New("no sidecar match")
	// ErrConflict marks renames skipped because the canonical target exists.
	ErrConflict = errors.New("canonical path conflict")
	// ErrUnreadableSidecar marks sidecars that could not be parsed.
	ErrUnreadableSidecar = errors.New("unreadable sidecar")
	// ErrExternalTool marks rename and metadata-tool failures.
	ErrExternalTool = errors.New("external tool error")
	// ErrVerification marks embeds that wrote successfully but read back
	// differently. A data-integrity signal, distinct from an I/O failure.
	ErrVerification = errors.New("verification mismatch")
)

// Wrap builds an error message that carries component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinels above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
