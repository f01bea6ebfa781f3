// Package markup pulls tagged values out of loosely structured markup
// without parsing it.
//
// The payloads this package reads are XML-like but are never validated:
// a value is whatever sits between the first <tag> and the next </tag>,
// with tag names compared ASCII case-insensitively. Missing, unterminated,
// or garbled tags simply yield no value.
package markup
