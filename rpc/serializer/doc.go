// Package serializer provides message serialization capabilities for the kvprefs
// channel. It defines a common interface and multiple implementations
// for serializing and deserializing messages between client and server components.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Supporting efficient encoding of the system's message structure
//   - Keeping the type tag of every value and the presence of optional reply fields
//   - Minimizing memory allocations and processing overhead
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Custom binary format implementation optimized for speed
//     and space efficiency. Uses a flag-based approach to encode only present fields,
//     resulting in compact serialized data with minimal overhead. Values are written
//     as a one byte type tag followed by a fixed size or length prefixed payload.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding, offering
//     good compatibility with Go's type system but with larger serialized sizes.
//     Presence of Ok and Values is encoded explicitly since gob drops zero values.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for debugging
//     or interoperability with other systems, but with lower performance. An empty
//     Values map is encoded as absent, which the client treats like an empty one.
//     Non-finite doubles are written as the strings "NaN", "+Inf" and "-Inf".
//
// Choosing a Serializer:
//
//	Client and host must use the same serializer. Binary produces the smallest
//	frames and is the one to use with the tcp and unix transports. JSON is easy to
//	inspect and to produce from other languages, which makes it the default for the
//	http transport. GOB exists for Go-only setups; see benchmark_test.go for numbers.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  serializer := serializer.NewBinarySerializer()
//	  data, err := serializer.Serialize(message)
//	  // ... send data ...
//	  var receivedMsg common.Message
//	  err = serializer.Deserialize(receivedData, &receivedMsg)
package serializer
