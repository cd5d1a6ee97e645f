// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the lingua home directory (~/.lingua).
//
// Adapters:
//   - ConfigStore: TOML-based provider configuration
//   - PromptStore: user-editable prompt templates with embedded defaults
package file
