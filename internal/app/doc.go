// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle that loads
// configuration, constructs the detector, applies live changes and reports
// the result, decoupled from any specific entrypoint like a CLI.
package app
