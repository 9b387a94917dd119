// Parses flags and dispatches mapforge commands.
//
// The CLI accepts the following global flags:
//
//	-q, --quiet   Suppress informational output.
//	-d, --debug   Enable debug output.
//
// The build command translates its flags into a build request verbatim;
// request validation happens in the build package, not here. After
// parsing, the global logger is reconfigured to reflect the final level
// before the selected command runs.
package cli
