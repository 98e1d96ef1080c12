// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses detector configuration files, evaluates unit
// expressions such as `2 * cm` to engine-native values, and translates the
// decoded blocks into the format-agnostic model.
package hcl
