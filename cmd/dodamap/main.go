// Command dodamap compiles a JSON dataflow graph into a DODA
// configuration bitstream.
package main

func main() {
	Execute()
}
