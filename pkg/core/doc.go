// Package core defines the shared language of hdlmacro.
//
// This package contains:
//   - The macro data model (Macro, MacroPort, MacroAttribute, MacroCollection)
//   - The closed Direction enumeration
//   - Ordered Bindings used for parameter and port values
//   - The error taxonomy shared by schema validation and instantiation
//   - The Instantiable capability interface
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
