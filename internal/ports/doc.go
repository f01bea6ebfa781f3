// Package ports defines the interfaces that connect the multbell core to
// its infrastructure adapters.
//
//   - [DatagramSource]: yields received datagrams (UDP socket, capture file)
//   - [AlertPlayer]: plays the alert cue (external player, audio device)
//   - [ReportSink]: renders classification reports (console)
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces;
// internal/adapters provides the concrete implementations.
package ports
