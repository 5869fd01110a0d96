// Package base implements the message channel independent of the network medium
// (TCP, Unix sockets, etc.). Medium specific packages only provide connectors that
// dial, listen and tune sockets.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - listener: Binds an endpoint and runs an accept loop in its own goroutine.
//     Accepted connections are posted to a bounded pool.ThreadPool whose workers
//     start one handler goroutine per connection. A handler loops receive, process,
//     send until END, QUIT or SHUTDOWN arrives or the stream fails. Replies are
//     never sent for terminal messages.
//
//   - connector: Dials once and starts a send pump and a receive pump. Callers
//     interact only with the outbound and inbound queues, so posting never blocks
//     and received messages are buffered until consumed.
//
// Shutdown:
//
//	Accept can not be interrupted portably, so Stop cancels the listener context
//	and then connects to the listener's own address and posts QUIT. The accept
//	loop wakes up, sees the cancelled context and exits. Cancelling the parent
//	context passed to NewListener triggers the same sequence. Handlers of already
//	accepted connections keep running until their peer ends the session.
//
// Metrics:
//
//	Accepted connections, accept errors, active handlers, handler terminations by
//	reason, sent and received messages and the processing duration are exported
//	with github.com/VictoriaMetrics/metrics.
package base
