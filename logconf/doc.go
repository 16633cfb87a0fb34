// Package logconf parses, validates, re-emits and materializes the INI style
// logging configurations shipped with the remittance action packages.
//
// A config declares three registries ([loggers], [handlers], [formatters]),
// each listing names under keys=, with one section per name
// ([logger_<name>], [handler_<name>], [formatter_<name>]). Loggers carry
// level, handlers, qualname and propagate; handlers carry class, level,
// formatter and args; formatters carry format and datefmt.
//
// Parse and Encode are lossless with respect to declared key/value pairs, so
// a parsed config can be re-emitted without dropping anything. Validate
// checks the structural cross references (every declared name has a section
// and vice versa, every referenced handler/formatter is declared). Build
// turns a valid config into live loggers: StreamHandler sections become
// console writers, FileHandler sections become append mode log files, and
// every handler renders the shared timestamped line format.
package logconf
