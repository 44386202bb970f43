// Package todo holds the task list state and its persistence rules.
//
// The Store owns the ordered task collection, the dark-mode flag and the
// transient edit selection. Every mutation goes through a Store method,
// is written to durable storage immediately, and is announced to
// subscribed observers.
//
// Two storage keys are used:
//
//	todos     JSON array of tasks
//	darkMode  JSON boolean
//
// The todos document looks like:
//
//	[
//	  {
//	    "id": "3f1c2b9e-6c1e-4a55-9a0e-0f6d1f2b7c11",
//	    "text": "Buy milk",
//	    "completed": false,
//	    "createdAt": "2024-01-01T00:00:00Z",
//	    "updatedAt": "2024-01-02T00:00:00Z"
//	  }
//	]
//
// # Loading
//
// Missing keys default to an empty list and light theme. A todos document
// that cannot be read, parsed, or that fails schema validation is also
// treated as an empty list; the problem is logged, never returned.
// ValidateDocument reports those problems in detail for diagnostics.
//
// # Validation
//
// Only one domain error exists: ErrEmptyInput, returned by Create and
// SaveEdit when the trimmed text is empty. Toggle and Delete on an
// unknown id are silent no-ops.
package todo
