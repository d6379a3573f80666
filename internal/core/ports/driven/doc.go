// Package driven defines the interfaces that core calls OUT to
// infrastructure and to the pipeline stages.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces; adapters and processor
// implementations satisfy them.
//
//   - Processor: One ordered transformation stage
//   - Pipeline: The fixed-order processor chain
//   - Assembler: Final schema-completion and override pass
//   - OutcomeStore: Durable per-document result persistence
//   - OutcomeStoreOpener: Opens a store rooted at an output directory
//
// # Import Rules
//
//   - Can Import: domain and the document-tree packages (h2k, hpxml)
//   - Cannot Import: Any adapter or service package
package driven
