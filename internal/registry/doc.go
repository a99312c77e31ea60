// Package registry maps module type names, as written in task declarations
// (e.g. `module = "file"`), to the Go constructors that build them.
//
// Each registration carries an option schema. Resolve validates a task's raw
// option record against that schema, converting every value to its declared
// type and filling defaults, before handing the result to the constructor.
// The registry is populated once at startup and is read-only afterwards, so
// the read path is safe for concurrent use.
package registry
