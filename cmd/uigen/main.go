// Command uigen builds UI contracts from doctype metadata bundles and
// generates the frontend modules that consume them.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
