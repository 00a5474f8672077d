// Package cli defines the cobra commands, their flags and the viper
// configuration of themegrid. The commands delegate to a Runner.
package cli
