//go:build vmsim_debug

package vmsim

const debugging = true

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}
