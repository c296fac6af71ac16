// SPDX-License-Identifier: MPL-2.0

// Command hoist resolves, installs, and locks hoist modules.
package main

func main() {
	Execute()
}
