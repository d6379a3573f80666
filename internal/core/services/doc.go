// Package services implements the driving port interfaces.
// Services contain the core orchestration logic: the per-document
// translation pipeline run, the parallel batch job, input discovery and
// the directory watcher.
package services
