// Package channel implements the gRPC transport of the alarm command channel.
//
// The channel exposes a single unary method, Invoke, mirroring a synchronous
// method call: the request is a protobuf Struct carrying the command name and
// its arguments, the response is a BoolValue. Only the closed set of commands
// in the domain package is accepted; anything else is Unimplemented.
package channel
