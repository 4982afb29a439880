// Package logger renders heartbeat's two-line console log format.
//
// Every record is written as
//
//	<tag>: <component>[1]
//	      <message>
//
// where <tag> is one of trac, debg, info, warn or eror. Write failures on
// the sink are returned to the caller as *WriteError instead of being
// dropped, since the log is the program's only output.
package logger
