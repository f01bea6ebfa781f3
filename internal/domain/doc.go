// Package domain holds the value types the multbell core works on.
//
// Nothing here touches sockets, processes, or audio. A Datagram goes in,
// a Report comes out, and the trigger rule is a method on the Report.
//
//   - [Datagram]: one received UDP payload plus its sender
//   - [FieldName]: the closed set of tags read from a contactinfo packet
//   - [Report]: extracted field values and the trigger outcome
package domain
