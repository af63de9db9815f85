// Package common holds configuration and logging shared by the server, the
// client commands and the reactor.
//
// Logging is routed through the dragonboat logger facade: every package
// obtains a named logger via logger.GetLogger and the factory here gives all
// of them one consistent output format and level handling.
package common
