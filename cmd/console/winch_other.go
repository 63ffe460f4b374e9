//go:build !unix

package main

import "os"

// Resizes are picked up only on unix terminals.
func notifyResize(chan<- os.Signal) {}
