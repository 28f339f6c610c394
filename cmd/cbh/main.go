// Command cbh binds one humanoid skeleton to another with constraint components.
package main

import "os"

func main() {
	os.Exit(Execute())
}
