// SPDX-License-Identifier: MIT
package main

import "github.com/skaphos/repofleet/cmd/repofleet"

var execute = repofleet.Execute

func main() {
	execute()
}
