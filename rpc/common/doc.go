// Package common provides core data structures and utilities shared across
// the kvprefs channel. It defines the wire protocol, configuration structures
// and the logger used by the other rpc packages.
//
// The package focuses on:
//   - Message protocol definition for the preference channel
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - Message: Core data structure for all requests and replies on the channel.
//     Set requests carry a tagged store.Value, so an integral double stays a double.
//     Ok and Values are pointers/maps and stay nil when a reply did not carry them,
//     which lets the client tell a missing reply from a false one.
//
//   - MessageType: Enumeration of the request names (remove, setBool, setInt,
//     setDouble, setString, setStringList, clear, getAll) plus the error reply.
//
//   - ChannelID: Maps a channel name (see DefaultChannel) to the id carried by
//     every frame, so one server can host several channels.
//
//   - ServerConfig: Configuration of the preference host: backend, data directory,
//     default storage name, transport and logging.
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
package common
