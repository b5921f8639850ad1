// Package hcl provides the concrete HCL implementation of the config.Loader
// interface, and the loader for interaction scripts replayed by the driver.
// It is responsible for all file parsing, HCL-to-model translation, and
// CTY-to-Go data binding.
package hcl
