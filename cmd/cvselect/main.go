// Command cvselect chooses the learning rate of a model by k-fold
// cross-validation and plots training curves.
//
//	$ cvselect select -c run.yaml
//	$ cvselect plot -train train.csv -val val.csv -metric IoU
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gonuts/commander"
)

const version = "0.1.0"

func main() {
	log.SetFlags(0)
	cmd := &commander.Command{
		UsageLine: "cvselect <command> [options]",
		Short:     "cross-validated learning rate selection",
		Subcommands: []*commander.Command{
			selectCmd(),
			plotCmd(),
			versionCmd(),
		},
	}
	if err := cmd.Dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func versionCmd() *commander.Command {
	return &commander.Command{
		Run: func(cmd *commander.Command, args []string) error {
			fmt.Println("cvselect", version)
			return nil
		},
		UsageLine: "version",
		Short:     "print the version",
	}
}
