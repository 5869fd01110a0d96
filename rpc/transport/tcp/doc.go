// Package tcp binds the message channel of the base package to TCP sockets.
//
// Key Components:
//
//   - clientConnector: Dials with an optional timeout and applies TCPConf and
//     SocketConf (no delay, keep-alive, linger, socket buffers).
//
//   - serverConnector: Listens on host:port and applies the same tuning to every
//     accepted connection.
//
// Listening on port 0 picks a free port, the listener's Addr reports it and Stop
// uses it to wake the accept loop.
package tcp
