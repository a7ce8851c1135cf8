//go:build !extpricing

package backend

// Default returns the pricer compiled into this build. Without the
// extpricing tag that is the unavailable stub.
func Default() Pricer { return Unavailable{} }
