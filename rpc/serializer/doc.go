// Package serializer provides message serialization for dComm. It defines a common
// interface and multiple implementations for turning a common.Message into bytes and
// back. Framing on the socket is done by the processing package, a serializer only
// ever sees one complete message.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Recovering the exact MessageType of every message, unknown types are rejected
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Custom binary format (type byte, flags byte, optional
//     length-prefixed body). A flag distinguishes a nil body from an empty one.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding, offering
//     good compatibility with Go's type system but with larger serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for debugging
//     or interoperability with other systems, but with lower performance.
//
// Performance Characteristics:
//
//   - Binary: smallest payload and fastest, the default of the CLI.
//
//   - JSON: human-readable (body is base64), useful when debugging with other tools.
//
//   - GOB: carries a type description with every message, noticeably larger.
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
//	  s := serializer.NewBinarySerializer()
//	  data, err := s.Serialize(*common.NewTextMessage("hello"))
//	  // ... send data ...
//	  var received common.Message
//	  err = s.Deserialize(data, &received)
package serializer
