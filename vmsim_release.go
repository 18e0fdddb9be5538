//go:build !vmsim_debug

package vmsim

const debugging = false

func assert(bool, string) {}
