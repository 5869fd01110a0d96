// Package processing defines how dComm moves messages across a socket and how a
// listener turns a received message into a reply.
//
// Key Components:
//
//   - IProcessing: the strategy the transport core is written against. Send encodes one
//     message onto a buffered writer, Recv decodes exactly one message from a buffered
//     reader into a queue, Process maps a request to its reply.
//
//   - frameProcessing: the default strategy. Every message is serialized with an
//     IRPCSerializer and written as one frame:
//
//     4 bytes payload length (uint32, big endian)
//     N bytes serialized common.Message
//
//     Frames larger than the configured maximum are rejected with ErrFrameTooLarge
//     before any payload is read.
//
//   - HandleFunc: the application part of Process. EchoHandler and UpperHandler are
//     provided for tests and the CLI.
package processing
