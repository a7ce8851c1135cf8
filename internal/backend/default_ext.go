//go:build extpricing

package backend

// Default returns the pricer compiled into this build.
func Default() Pricer { return Analytic{} }
