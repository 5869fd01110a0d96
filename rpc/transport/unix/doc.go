// Package unix binds the message channel of the base package to Unix domain
// sockets for processes running on the same machine.
//
// Key Components:
//
//   - clientConnector: Dials a socket path and applies the socket buffer sizes
//
//   - serverConnector: Removes a stale socket file and listens on the path
//
// Performance Characteristics:
//
//   - Reduced overhead: Eliminates TCP/IP stack processing for better performance
//   - Lower latency: Direct kernel-mediated IPC avoids network subsystem overhead
package unix
