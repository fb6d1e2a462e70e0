// Package tcp implements the TCP socket transport of the kvprefs channel. It provides
// concrete implementations of the base package's connector interfaces for TCP
// connections.
//
// This package builds on the base package's transport functionality, inheriting its
// connection pooling, buffer reuse, and request routing. See the base package
// documentation for details on the frame format and the worker pool.
//
// Key Components:
//
//   - clientConnector: TCP specific implementation of base.IClientConnector
//
//   - serverConnector: TCP specific implementation of base.IServerConnector
//
// Both sides apply the socket options of common.TCPConf and common.SocketConf
// (no delay, keep-alive, linger, buffer sizes) to every connection.
//
// The default server buffer size is set to 512 KB.
package tcp
