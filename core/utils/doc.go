// Package utils holds small helpers shared by handlers and commands.
package utils
