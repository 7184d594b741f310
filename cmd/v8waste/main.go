// Command v8waste analyzes a V8 heap snapshot for duplicate-object and
// hidden-class waste.
package main

import (
	"github.com/v8waste/cmd/v8waste/cmd"
)

func main() {
	cmd.Execute()
}
