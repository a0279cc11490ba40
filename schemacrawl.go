// Package schemacrawl provides schema-driven web data extraction. A schema
// is a reusable mapping from field names to CSS selector/attribute patterns,
// learned once via an expensive LLM pass and reused on structurally
// similar pages, falling back to the LLM path only when schema-based
// extraction fails.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, gemini/).
package schemacrawl
