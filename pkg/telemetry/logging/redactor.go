package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// digestPrefixLen is the number of hex characters of the content digest
// included in a redacted placeholder. Enough to correlate log lines with
// stored evidence without reversing the content.
const digestPrefixLen = 12

// Redactor rewrites communication payloads before they reach log output.
// When disabled it passes content through unchanged.
type Redactor struct {
	enabled bool
}

// NewRedactor returns a Redactor. Pass the redact_content flag from
// config.LoggingConfig.
func NewRedactor(enabled bool) *Redactor {
	return &Redactor{enabled: enabled}
}

// Enabled reports whether redaction is active.
func (r *Redactor) Enabled() bool {
	return r.enabled
}

// Content returns the loggable form of a communication payload. With
// redaction enabled the payload is replaced by its length and a truncated
// SHA-256 digest, which matches the content hash recorded in evidence.
func (r *Redactor) Content(content string) string {
	if !r.enabled || content == "" {
		return content
	}

	sum := sha256.Sum256([]byte(content))
	digest := hex.EncodeToString(sum[:])

	return fmt.Sprintf("[redacted len=%d sha256=%s]", len(content), digest[:digestPrefixLen])
}
