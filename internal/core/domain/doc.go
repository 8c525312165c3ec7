// Package domain contains the core business types for Recollect.
// It has no dependencies on infrastructure or frameworks.
package domain
