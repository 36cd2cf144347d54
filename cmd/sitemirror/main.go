/*
Copyright © 2026 the sitemirror authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/sitemirror/sitemirror/pkg/cli"

func main() {
	cli.Execute()
}
