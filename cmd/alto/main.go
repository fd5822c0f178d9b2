// Command alto is the command line client for the Alto service: streaming
// text generation, asynchronous task management, and image synthesis.
package main

func main() {
	Execute()
}
