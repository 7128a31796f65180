// Package logging provides the subsystem-tagged logger used across kube-autogpt.
//
// It wraps log/slog with printf-style helpers that always attach a subsystem
// attribute, and optionally an error:
//
//	logging.Init(logging.LevelInfo, logging.FormatJSON, os.Stderr)
//
//	logging.Info("Controller", "Reconciling %s", key)
//	logging.Debug("Synthesizer", "Calling %s in %s mode", model, mode)
//	logging.Error("ApplyEngine", err, "Failed to apply %s", name)
//
// Init also installs the same handler as controller-runtime's logger, so the
// manager, its caches and its workqueues log through one stream. Messages
// below the configured level are dropped, as is everything logged before
// Init runs.
package logging
