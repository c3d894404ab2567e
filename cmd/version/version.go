package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casperpad/kunft-marketplace-contract/version"
)

func Cmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of the marketplace",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.BuildVersion)
		},
	}
	return versionCmd
}
