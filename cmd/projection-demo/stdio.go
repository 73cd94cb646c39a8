package main

import "os"

// stdioConn adapts the process's stdin/stdout into the single
// io.ReadWriteCloser a StreamBridge expects, as if a renderer process were
// connected over a pipe.
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioConn) Close() error                { return nil }
