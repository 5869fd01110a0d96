// Package rpc contains the message channel between a listener and its connectors.
// It is not an RPC framework in the request/response sense: every connection
// carries one bidirectional stream of typed messages, the listener answers each
// data message through a pluggable processing strategy.
//
// The package is organized into several subpackages:
//
//   - common: The Message type, configuration structures, and logging.
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - processing: Length prefixed framing on buffered streams and the handlers
//     producing replies.
//
//   - transport: Listener and connector interfaces, the medium independent
//     implementation in base and the tcp and unix bindings.
package rpc
