// guardline resolves inline @guard tags into per-line access
// permissions for AI and human actors.
package main

import "github.com/guardline-dev/guardline/internal/cli"

func main() {
	cli.Execute()
}
