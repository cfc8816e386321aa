// Package shell provides the command-execution tools the gate mediates.
//
// Tools:
//   - run_command: Execute a shell command
//   - bash: Execute a bash script
//   - run_build: Execute project build command
//   - run_tests: Execute project test command
//   - git_diff: Show uncommitted changes
//   - git_log: Show recent commit history
//   - git_operation: Run a mutating git command (add, commit, push, ...)
package shell
