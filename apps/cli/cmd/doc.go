// Package cmd implements the apiprobe CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the EmpowerYouth scenario plan against a live API
//   - list: Show the plan in execution order with tiers and dependencies
//   - mock: Serve an in-memory EmpowerYouth API for local runs
//   - version: Show apiprobe version information
//
// Settings come from .apiprobe.json/.yaml/.yml, a .env file, the process
// environment and flags, flags winning.
package cmd
