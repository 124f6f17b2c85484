// Command auditor is the CLI entrypoint for the SEO audit engine.
package main

import "github.com/seoauditor/engine/internal/cli"

func main() {
	cli.Execute()
}
