/*
Package ports defines the driven ports (interfaces) of the cartograph session.

These interfaces decouple the session controller from the external parsers and transports,
allowing the editor to work with any style or data format and to fan snapshots out to
remote views.

# Key Interfaces

  - Source: Parses raw input into a value, after declaring whether it can handle it.
  - StyleSource / DataSource: The two capabilities consumed by the session's input boundary.
  - SnapshotPublisher: Relays published snapshots to views outside the process.
*/
package ports
