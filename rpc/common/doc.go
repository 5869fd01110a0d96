// Package common provides the data structures shared by every dComm component.
//
// The package focuses on:
//   - The Message exchanged between Connector and Listener and its MessageType discriminant
//   - Configuration structures for listeners and connectors
//   - Custom logging implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - Message: a discriminant (MessageType) plus an opaque Body. The transport core only
//     ever looks at the type, the payload belongs to the application.
//
//   - MessageType: closed set of data, END, QUIT and SHUTDOWN. The last three are
//     terminal: they end a message loop and are never answered.
//
//   - ListenerConfig / ConnectorConfig: endpoint, worker count, buffer sizes and socket
//     options, each with a String method for startup logs.
//
//   - Logger: dragonboat logger.ILogger implementations. CreateLogger is installed as the
//     factory by InitLoggers, NewMuteLogger drops everything and NewVerboseLogger writes
//     all levels to stderr.
package common
