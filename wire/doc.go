/*
Package `wire` implements the pcc framing: a 4 byte big-endian length header, the raw payload, and a 4 byte
big-endian result count.

`SendExact` and `RecvExact` drive a stream until exactly the requested amount of bytes has been transferred.
Errors are split in two families. Disconnects (orderly close, reset, broken pipe, timeouts) satisfy `IsAborted`
and only end the current connection. Anything else is fatal for the caller.
*/
package wire
