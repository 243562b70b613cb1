//go:build !linux

package platform

func boardModel() string { return "" }
