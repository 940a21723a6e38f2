// FridgeChef searches recipes, shows them, and reads them aloud.
//
// Usage:
//
//	fridgechef [--offline] [--no-speech] [--verbose|--quiet]
//	fridgechef search <query>
//	fridgechef show <id> [--speak]
package main

import "github.com/joho/godotenv"

func main() {
	_ = godotenv.Load()
	Execute()
}
