// Package harness provides utilities for integration testing the dailyup CLI.
// It handles binary compilation, environment isolation, command execution
// and a fake report service.
//
// Environment variables managed:
//   - DAILYUP_HOME: Isolated per test (temp directory)
//   - DAILYUP_DEBUG: Disabled to reduce noise
package harness
