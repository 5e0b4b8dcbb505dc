/*
Package `server` implements the pcc server: it accepts TCP connections one at a time, receives a length-prefixed
payload, replies with the number of printable characters in it, and accumulates per character counts across
connections.

A connection goes through these phases:

	receive length -> receive payload -> send result -> accumulate -> close

A peer disconnecting during any of the first three phases aborts the connection, which is closed without
accumulating anything: characters are only credited once their client got its result. Any other I/O error is fatal
and returned from `Serve`.

Connections are never processed concurrently, so the counter table needs no locking.

Shutdown requests go through a `Coordinator`. A request while idle stops the server right away; a request while a
connection is in progress is honored once that connection is closed. `Serve` then returns and the caller prints
the report.
*/
package server
