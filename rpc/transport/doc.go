// Package transport defines the interfaces of the message channel. A listener
// accepts connections and answers every received message through a processing
// strategy, a connector is the client end posting and receiving messages.
//
// Key Components:
//
//   - IListener: Accepts connections, hands them to a bounded worker pool and
//     runs one message loop per connection until a terminal message arrives.
//
//   - IConnector: Duplex client with a send and a receive pump decoupled from
//     the caller by two queues.
//
// Implementations live in the base package and are bound to a medium by the tcp
// and unix packages.
package transport
