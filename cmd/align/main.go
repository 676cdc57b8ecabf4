// Command align aligns narration script sentences against a word-timed
// transcript read from a JSON job file and prints the result as JSON.
//
//	align -input job.json [-words] [-validate] [-pretty]
//
// The job holds "sentences" and either "words" or a whisper "transcript".
// Invalid alignments still exit 0; I/O and decode errors exit 1.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
