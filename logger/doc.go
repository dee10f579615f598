// Package logger provides structured logging for flowkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("flow")
//	log.Info("flow run finished", logger.Fields("run_id", id, "status", "success"))
package logger
