// Package logging provides the runtime half of the declarative logging
// configuration shipped with a remittance agent package.
//
// It exposes:
//
//   - Logger, the minimal interface (Debug, Info, Warn, Error) the rest of
//     the module depends on, plus a slog adapter and a NoOpLogger
//   - Level, a level enum matching the names used by the INI configs
//     (DEBUG through CRITICAL) with parsing helpers
//   - LineHandler, a slog.Handler rendering the shared timestamped line
//     format "<timestamp> - <logger name> - <level> - <message>"
//   - Registry, mapping dotted logger names to configured loggers with
//     hierarchical fallback to the root logger
//   - ServiceLogger, contextual helpers for action runs and reconciliation
//     outcomes
//
// The design intentionally keeps the interface minimal so any structured
// logger can be plugged in where the configured line loggers are not wanted.
package logging
