// Package hcl_adapter is the HCL authoring front-end. It reads `task` and
// `locals` blocks from .hcl (and .hcl.json) files and produces the
// format-agnostic config.Model, evaluating every expression up front.
//
//	locals {
//	  dir = "/tmp/nucleos"
//	}
//
//	task "marker" {
//	  module  = "file"
//	  options = { path = "${local.dir}/marker", content = upper(env.USER) }
//	  opts    = { enabled = false }
//	}
//
// Option merging and defaulting beyond what the expressions themselves do
// (e.g. merge(local.defaults, {...})) is deliberately left to the author.
package hcl_adapter
