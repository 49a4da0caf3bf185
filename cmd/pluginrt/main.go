// Package main provides the pluginrt CLI entry point: a small host shell
// for local plugin development, independent of whatever 3D application
// embeds the runtime in production.
package main

func main() {
	Execute()
}
