//go:build !unix

package connector

import "syscall"

// reuseAddr is a no-op where SO_REUSEADDR cannot be set at bind time.
func reuseAddr(network, address string, conn syscall.RawConn) error {
	return nil
}
