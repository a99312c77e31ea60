// Package config defines the format-agnostic Configuration model that the
// task compiler consumes, along with the Loader interface implemented by the
// authoring front-ends (see hcl_adapter).
//
// A Model is already structured data: module options and task options are
// plain cty values. Nothing here has been validated against the module
// registry yet; that is the compiler's job.
package config
